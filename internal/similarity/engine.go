package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// DefaultMaxVocab caps the fitted vocabulary size so scoring cost stays
// bounded regardless of corpus size.
const DefaultMaxVocab = 1000

// Engine scores a document against a corpus of prior documents using
// TF-IDF weighting and cosine similarity. It is stateless per call: every
// invocation re-fits the vocabulary over the supplied texts, so a score is
// a snapshot of the corpus at scoring time.
type Engine struct {
	maxVocab int
}

// NewEngine creates an Engine with the default vocabulary cap.
func NewEngine() *Engine {
	return &Engine{maxVocab: DefaultMaxVocab}
}

// NewEngineWithVocab creates an Engine with a custom vocabulary cap.
// Values below 1 fall back to the default.
func NewEngineWithVocab(maxVocab int) *Engine {
	if maxVocab < 1 {
		maxVocab = DefaultMaxVocab
	}
	return &Engine{maxVocab: maxVocab}
}

// Score returns the maximum cosine similarity in [0, 1] between doc and any
// corpus entry. An empty corpus yields 0 (no basis for comparison). A
// document that tokenizes to nothing (e.g. stop-words only) has a zero
// vector; similarity against a zero vector is 0.
func (e *Engine) Score(doc string, corpus []string) float64 {
	if len(corpus) == 0 {
		return 0
	}

	texts := make([][]string, 0, len(corpus)+1)
	texts = append(texts, tokenize(doc))
	for _, c := range corpus {
		texts = append(texts, tokenize(c))
	}

	vocab, idf := e.fit(texts)
	if len(vocab) == 0 {
		return 0
	}

	docVec := vectorize(texts[0], vocab, idf)

	best := 0.0
	for _, tokens := range texts[1:] {
		sim := cosine(docVec, vectorize(tokens, vocab, idf))
		if sim > best {
			best = sim
		}
	}

	// Guard against float drift pushing an exact duplicate above 1.
	if best > 1 {
		best = 1
	}
	return best
}

// fit builds the term index and inverse document frequencies over all texts.
// When the distinct-term count exceeds the cap, the most frequent terms win;
// ties break alphabetically so fitting is deterministic.
func (e *Engine) fit(texts [][]string) (map[string]int, []float64) {
	df := make(map[string]int)
	totals := make(map[string]int)

	for _, tokens := range texts {
		seen := make(map[string]bool, len(tokens))
		for _, t := range tokens {
			totals[t]++
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	terms := make([]string, 0, len(totals))
	for t := range totals {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > e.maxVocab {
		terms = terms[:e.maxVocab]
	}

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(texts))
	for i, t := range terms {
		vocab[t] = i
		// Smoothed IDF: behaves as if every term occurred in one extra
		// document, keeping weights finite for corpus-wide terms.
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return vocab, idf
}

// vectorize maps tokens onto a sparse TF-IDF vector in the fitted space.
func vectorize(tokens []string, vocab map[string]int, idf []float64) map[int]float64 {
	vec := make(map[int]float64)
	for _, t := range tokens {
		if i, ok := vocab[t]; ok {
			vec[i] += idf[i]
		}
	}
	return vec
}

// cosine computes the cosine similarity between two sparse vectors.
// Either vector being zero yields 0.
func cosine(a, b map[int]float64) float64 {
	var dot, normA, normB float64
	for i, w := range a {
		normA += w * w
		if bw, ok := b[i]; ok {
			dot += w * bw
		}
	}
	for _, w := range b {
		normB += w * w
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// tokenize lower-cases the text, splits on non-alphanumeric runes, and
// drops common English stop-words.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if !stopWords[f] {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
