package simpleregex_test

import (
	"fmt"

	simpleregex "github.com/2win9s/simpleregex"
)

func ExampleCompile() {
	re, err := simpleregex.Compile("(a|b)+c")
	if err != nil {
		panic(err)
	}
	ok, _ := re.TestUnanchored([]byte("xx abac yy"))
	fmt.Println(ok)
	// Output: true
}

func ExampleRegex_MatchUnanchored() {
	re := simpleregex.MustCompile("([a-z]+)@([a-z]+)")
	matches, _ := re.MatchUnanchored([]byte("mail me at user@host today"))
	m := matches[len(matches)-1]
	fmt.Printf("%s / %s\n", m.Group(1), m.Group(2))
	// Output: user / host
}

func ExampleRegex_MatchIndices() {
	re := simpleregex.MustCompile("(b)c")
	re.MatchUnanchored([]byte("abc"))
	fmt.Println(re.MatchIndices())
	// Output: [[1 3 1 2]]
}
