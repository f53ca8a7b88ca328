package selection

import (
	"errors"
	"reflect"
	"sync"
	"testing"
)

func TestRegisterCandidatesKeepsSelection(t *testing.T) {
	s := New()
	s.RegisterCandidates("chat", []string{"a", "b", "c", "d"})
	if _, _, err := s.MoveCursor("chat", func(int, []string) (int, string) { return 1, "b" }); err != nil {
		t.Fatal(err)
	}

	s.RegisterCandidates("chat", []string{"x", "y"})

	if got := s.Cursor("chat"); got != 0 {
		t.Errorf("Expected cursor reset to 0, got %d", got)
	}
	if url, ok := s.Selection("chat"); !ok || url != "b" {
		t.Errorf("Expected selection b to survive, got %q (%v)", url, ok)
	}
	urls, _ := s.Candidates("chat")
	if !reflect.DeepEqual(urls, []string{"x", "y"}) {
		t.Errorf("Expected new candidates, got %v", urls)
	}
}

func TestCandidatesReturnsCopy(t *testing.T) {
	s := New()
	in := []string{"a", "b"}
	s.RegisterCandidates("chat", in)
	in[0] = "mutated"

	urls, ok := s.Candidates("chat")
	if !ok {
		t.Fatal("Expected candidates to exist")
	}
	urls[1] = "mutated"

	again, _ := s.Candidates("chat")
	if !reflect.DeepEqual(again, []string{"a", "b"}) {
		t.Errorf("Expected store to be isolated from callers, got %v", again)
	}
}

func TestMoveCursorUnknownWord(t *testing.T) {
	s := New()
	_, _, err := s.MoveCursor("inconnu", func(int, []string) (int, string) { return 1, "" })
	if !errors.Is(err, ErrUnknownWord) {
		t.Errorf("Expected ErrUnknownWord, got %v", err)
	}
}

func TestMoveCursorKeepsSelectionWithoutPick(t *testing.T) {
	s := New()
	s.RegisterCandidates("chat", []string{"a", "b"})
	s.SelectImage("chat", "b")

	cursor, urls, err := s.MoveCursor("chat", func(current int, urls []string) (int, string) {
		return current + 1, ""
	})
	if err != nil {
		t.Fatal(err)
	}
	if cursor != 1 || s.Cursor("chat") != 1 || len(urls) != 2 {
		t.Errorf("Expected cursor 1 and candidates copy, got %d %v", cursor, urls)
	}
	if url, _ := s.Selection("chat"); url != "b" {
		t.Errorf("Expected selection untouched, got %s", url)
	}
}

func TestSelectImageOverwrites(t *testing.T) {
	s := New()
	s.RegisterCandidates("chat", []string{"A", "B"})
	s.SelectImage("chat", "A")
	s.SelectImage("chat", "B")

	url, ok := s.Selection("chat")
	if !ok || url != "B" {
		t.Errorf("Expected B, got %q", url)
	}

	choices, err := s.Choices([]string{"chat"})
	if err != nil {
		t.Fatal(err)
	}
	if len(choices) != 1 || choices[0].ImageURL != "B" {
		t.Errorf("Expected exactly one choice B, got %+v", choices)
	}
}

func TestValidateComplete(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		words    []string
		expected []string
	}{
		{
			name:     "nothing selected",
			words:    []string{"chat", "chien", "vache"},
			expected: []string{"chat", "chien", "vache"},
		},
		{
			name:     "keeps input order",
			selected: []string{"chien"},
			words:    []string{"vache", "chat", "chien"},
			expected: []string{"vache", "chat"},
		},
		{
			name:     "all selected",
			selected: []string{"chat", "chien"},
			words:    []string{"chat", "chien"},
			expected: []string{},
		},
		{
			name:     "case sensitive",
			selected: []string{"Chat"},
			words:    []string{"chat"},
			expected: []string{"chat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			for _, w := range tt.words {
				s.RegisterCandidates(w, []string{"u1"})
			}
			for _, w := range tt.selected {
				s.SelectImage(w, "u1")
			}
			got := s.ValidateComplete(tt.words)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestValidateUntilSelected(t *testing.T) {
	s := New()
	s.RegisterCandidates("chat", []string{"a", "b"})

	for i := 0; i < 3; i++ {
		if missing := s.ValidateComplete([]string{"chat"}); len(missing) != 1 {
			t.Fatalf("Expected chat to be missing, got %v", missing)
		}
	}

	s.SelectImage("chat", "a")
	if missing := s.ValidateComplete([]string{"chat"}); len(missing) != 0 {
		t.Errorf("Expected no missing words, got %v", missing)
	}
}

func TestChoicesMissing(t *testing.T) {
	s := New()
	s.SelectImage("chat", "a")

	_, err := s.Choices([]string{"chat", "chien", "lapin"})
	var missing *MissingSelectionError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingSelectionError, got %v", err)
	}
	want := "Veuillez sélectionner une image pour: chien, lapin"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.RegisterCandidates("chat", []string{"a"})
	s.SelectImage("chat", "a")
	s.Reset()

	if _, ok := s.Candidates("chat"); ok {
		t.Error("Expected candidates to be cleared")
	}
	if _, ok := s.Selection("chat"); ok {
		t.Error("Expected selection to be cleared")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.RegisterCandidates("chat", []string{"a", "b"})
			s.SelectImage("chat", "b")
			_ = s.ValidateComplete([]string{"chat"})
		}(i)
	}
	wg.Wait()

	if url, _ := s.Selection("chat"); url != "b" {
		t.Errorf("Expected b, got %q", url)
	}
}
