package wordseg

import (
	"reflect"
	"testing"

	"medi-response-service/internal/service/lexicon"
)

func TestSegmenter_Resplit(t *testing.T) {
	seg := New(nil)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"merged pair", "pleasehelp", "please help"},
		{"keeps case", "Iamsoscared", "I am so scared"},
		{"mixed sentence", "thankyou doctor", "thank you doctor"},
		{"known word untouched", "hospital", "hospital"},
		{"unknown word untouched", "xqzt", "xqzt"},
		{"apostrophe untouched", "I'm fine", "I'm fine"},
		{"digits untouched", "room2 now", "room2 now"},
		{"punctuation in place", "Help!pleasehelp.", "Help!please help."},
		{"collapses whitespace", "so   scared\n now", "so scared now"},
		{"drops outer whitespace", "  okay  ", "okay"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := seg.Resplit(tt.input); got != tt.want {
				t.Errorf("Resplit(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSegmenter_Split_PrefersFrequentWords(t *testing.T) {
	lex := lexicon.New([]string{"the", "a", "rapist", "therapist", "he", "rap", "is", "t"})
	seg := New(lex)

	got := seg.Split("theis")
	want := []string{"the", "is"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split(theis) = %v, want %v", got, want)
	}
}

func TestSegmenter_Split_NoKnownSplit(t *testing.T) {
	seg := New(lexicon.New([]string{"help"}))

	got := seg.Split("helpqq")
	if !reflect.DeepEqual(got, []string{"helpqq"}) {
		t.Errorf("expected run without a full split to be kept, got %v", got)
	}
}

func TestSegmenter_Split_ShortRun(t *testing.T) {
	seg := New(lexicon.New([]string{"a", "i"}))

	got := seg.Split("ai")
	if !reflect.DeepEqual(got, []string{"ai"}) {
		t.Errorf("expected short run to be kept, got %v", got)
	}
}

func TestSegmenter_DefaultLexiconKeepsRealWords(t *testing.T) {
	seg := New(nil)

	tests := []string{
		"heartbeat",
		"He was married last year and his wife is with him.",
		"My cat sleeps on his bed and the dog is loud.",
		"The intensive care unit called my uncle about his kidney.",
		"We drove all night to get here because my sister phoned us.",
		"She worries that the surgeons stopped too early.",
		"My father has been waiting in the hallway since morning.",
	}
	for _, in := range tests {
		if got := seg.Resplit(in); got != in {
			t.Errorf("Resplit(%q) = %q, want unchanged", in, got)
		}
	}
}
