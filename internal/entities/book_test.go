package entities

import (
	"reflect"
	"testing"
)

func TestBook_AuthorNames(t *testing.T) {
	book := Book{
		ISBN13: "9780131103627",
		Authors: []Author{
			{Position: 0, AuthorName: "Brian Kernighan"},
			{Position: 1, AuthorName: "Dennis Ritchie"},
		},
	}

	got := book.AuthorNames()
	want := []string{"Brian Kernighan", "Dennis Ritchie"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AuthorNames() = %v, want %v", got, want)
	}

	var empty Book
	if names := empty.AuthorNames(); len(names) != 0 {
		t.Errorf("AuthorNames() on a book without authors = %v, want empty", names)
	}
}
