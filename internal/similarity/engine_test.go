package similarity

import (
	"math/rand"
	"testing"
)

func TestScoreEmptyCorpus(t *testing.T) {
	e := NewEngine()

	for _, doc := range []string{"", "the quick brown fox", "word"} {
		if got := e.Score(doc, nil); got != 0 {
			t.Errorf("Score(%q, nil) = %f, want 0", doc, got)
		}
		if got := e.Score(doc, []string{}); got != 0 {
			t.Errorf("Score(%q, []) = %f, want 0", doc, got)
		}
	}
}

func TestScoreExactDuplicate(t *testing.T) {
	e := NewEngine()

	doc := "The quick brown fox jumps over the lazy dog"
	corpus := []string{
		"Photosynthesis converts sunlight into chemical energy",
		"The quick brown fox jumps over the lazy dog",
		"Compilers translate source code into machine instructions",
	}

	got := e.Score(doc, corpus)
	if got < 0.9 {
		t.Errorf("Score for exact duplicate = %f, want >= 0.9", got)
	}
	if got > 1 {
		t.Errorf("Score = %f, want <= 1", got)
	}
}

func TestScoreCorpusOrderInvariant(t *testing.T) {
	e := NewEngine()

	doc := "Climate change accelerates glacier melt across polar regions"
	corpus := []string{
		"Glacier melt accelerates in polar regions due to climate change",
		"Medieval trade routes connected distant markets",
		"Neural networks approximate nonlinear functions",
		"Polar bears depend on sea ice for hunting",
	}

	want := e.Score(doc, corpus)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]string, len(corpus))
		copy(shuffled, corpus)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		if got := e.Score(doc, shuffled); got != want {
			t.Errorf("Score changed under corpus reordering: got %f, want %f", got, want)
		}
	}
}

func TestScoreStopWordsOnly(t *testing.T) {
	e := NewEngine()

	// Document that tokenizes to nothing must yield the zero vector.
	if got := e.Score("the and of or but", []string{"a real essay about chemistry"}); got != 0 {
		t.Errorf("Score for stop-words-only document = %f, want 0", got)
	}

	// Same for a degenerate corpus entry.
	if got := e.Score("a real essay about chemistry", []string{"the and of or but"}); got != 0 {
		t.Errorf("Score against stop-words-only corpus = %f, want 0", got)
	}
}

func TestScoreUnrelatedTextsLow(t *testing.T) {
	e := NewEngine()

	doc := "Volcanic eruptions release ash and sulfur dioxide"
	corpus := []string{"Renaissance painters mixed pigments with linseed oil"}

	got := e.Score(doc, corpus)
	if got > 0.3 {
		t.Errorf("Score for unrelated texts = %f, want <= 0.3", got)
	}
	if got < 0 {
		t.Errorf("Score = %f, want >= 0", got)
	}
}

func TestScoreDuplicateBeatsParaphrase(t *testing.T) {
	e := NewEngine()

	doc := "Rivers erode rock and carry sediment downstream"

	dupOnly := e.Score(doc, []string{"Rivers erode rock and carry sediment downstream"})
	paraphraseOnly := e.Score(doc, []string{"Sediment travels downstream as rivers wear away rock"})

	if dupOnly <= paraphraseOnly {
		t.Errorf("duplicate score %f should exceed paraphrase score %f", dupOnly, paraphraseOnly)
	}
}

func TestScoreVocabularyCap(t *testing.T) {
	// A tiny cap must still score and stay within bounds.
	e := NewEngineWithVocab(3)

	doc := "alpha beta gamma delta epsilon zeta"
	corpus := []string{
		"alpha beta gamma delta epsilon zeta",
		"completely different words entirely unrelated",
	}

	got := e.Score(doc, corpus)
	if got < 0.9 || got > 1 {
		t.Errorf("capped-vocab duplicate score = %f, want in [0.9, 1]", got)
	}
}

func TestScoreCaseInsensitive(t *testing.T) {
	e := NewEngine()

	got := e.Score("MITOCHONDRIA Produce Cellular Energy", []string{"mitochondria produce cellular energy"})
	if got < 0.9 {
		t.Errorf("case-folded duplicate score = %f, want >= 0.9", got)
	}
}
