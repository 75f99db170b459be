package vsv_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/nao1215/vsv"
)

// ExampleResolve shows the typical call made before loading a file into a table.
func ExampleResolve() {
	data := []byte("id\tname\n1\talice\n2\tbob\n")

	result, err := vsv.Resolve(data, "report.txt")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.Separator.Escaped(), result.Header, result.Format, result.Names())
	// Output: \t true delimited [report.txt]
}

// ExampleResolve_undetermined shows the error returned when nothing identifies a separator.
func ExampleResolve_undetermined() {
	_, err := vsv.Resolve([]byte("no separator in sight"), "notes.txt")

	fmt.Println(errors.Is(err, vsv.ErrUndeterminedSeparator))
	// Output: true
}

func ExampleDetectSeparator() {
	// The suffix decides before any content is read
	sep, _ := vsv.DetectSeparator("users.csv", []byte("a|b\n1|2\n"))
	fmt.Println(sep)

	// Unknown suffixes fall back to sniffing
	sep, _ = vsv.DetectSeparator("users.txt", []byte("a|b\n1|2\n"))
	fmt.Println(sep, sep.Hex())
	// Output:
	// ,
	// | 7c
}

func ExampleDetectSeparatorFromContent() {
	sep, err := vsv.DetectSeparatorFromContent([]byte("a,b|c\n1,2|3\n"))

	fmt.Println(sep, err != nil)
	// Output: -1 true
}

func ExampleHasHeader() {
	fmt.Println(vsv.HasHeader([]byte("a,b,c\n1,2,3\n"), vsv.SeparatorComma))
	fmt.Println(vsv.HasHeader([]byte("a,1,2\n1,2,3\n"), vsv.SeparatorComma))
	fmt.Println(vsv.HasHeader([]byte("a,b,b\n1,2,3\n"), vsv.SeparatorComma))
	// Output:
	// true
	// false
	// false
}

func ExampleHeaderRule_HasHeader() {
	rule := vsv.DefaultHeaderRule().WithMaxNumericFields(2)

	fmt.Println(rule.HasHeader([]byte("name,2023,2024\nalice,1,2\n"), vsv.SeparatorComma))
	// Output: true
}

func ExampleParseSeparator() {
	for _, s := range []string{`\t`, "09", "|"} {
		sep, err := vsv.ParseSeparator(s)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(sep.Escaped())
	}
	// Output:
	// \t
	// \t
	// |
}
