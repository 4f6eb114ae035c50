// Package dictionary implements the word-validity and fragment-sampling
// service (spec §4.1, component C1). It loads a newline-delimited word
// list, indexes 2- and 3-character fragments by distinct-word count, and
// answers isValid/sampleFragment queries. Grounded in the teacher's
// srv/genre.go (a fixed, in-memory word-set keyed by category with a
// toSet helper), generalized from a hard-coded Japanese genre map into a
// file-loaded fragment-frequency index per spec §4.1.
package dictionary

import (
	"bufio"
	"io"
	"math/rand/v2"
	"regexp"
	"sort"
	"strings"
	"sync"

	"bombparty/internal/apperr"
)

// Mode selects how a Dictionary is populated. Spec §9's open question
// ("the source conflates 'in test environment' with 'use fallback
// dictionary'") is resolved here: Mode is an explicit configuration value
// set by the caller, never sniffed from an environment variable.
type Mode int

const (
	ModeFile Mode = iota
	ModeFallback
)

const maxWordLength = 30

var wordPattern = regexp.MustCompile(`^[a-z]+$`)

// fragmentEntry pairs a fragment with its distinct-word count, used for
// the sorted-by-count sampling structure.
type fragmentEntry struct {
	fragment string
	count    int
}

// Dictionary is a process-wide, read-only-after-load word and fragment
// index.
type Dictionary struct {
	mu sync.RWMutex

	words         map[string]struct{}
	fragmentCount map[string]int
	fragmentWords map[string]map[string]struct{} // fragment -> set of words containing it
	sortedByCount []fragmentEntry                // descending count, tie-broken lexicographically

	usingFallback bool
	testMode      bool
	rng           func() float64
}

// New constructs an empty Dictionary. Use Load or LoadFallback to
// populate it. testMode, when true, makes SampleFragment return "aa"
// instead of failing with DictionaryEmpty when no fragments exist at all,
// per spec §4.1 step 4.
func New(testMode bool) *Dictionary {
	return &Dictionary{
		words:         make(map[string]struct{}),
		fragmentCount: make(map[string]int),
		fragmentWords: make(map[string]map[string]struct{}),
		testMode:      testMode,
		rng:           rand.Float64,
	}
}

// Load reads a newline-delimited word list from r, lowercasing, trimming,
// and filtering to length in [2, 30] and letters-only, per spec §4.1
// Loading. Rejected words do not contribute fragments.
func (d *Dictionary) Load(r io.Reader) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	words := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if len(w) < 2 || len(w) > maxWordLength {
			continue
		}
		if !wordPattern.MatchString(w) {
			continue
		}
		words[w] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	d.buildLocked(words)
	d.usingFallback = false
	return nil
}

// fallbackWords is a small built-in word set such that "aa" is valid,
// installed when file loading fails or is bypassed in a test environment,
// per spec §4.1 Fallback mode.
var fallbackWords = []string{
	"aa", "an", "at", "in", "it", "of", "on", "or", "to",
	"ant", "bat", "cat", "dog", "ear", "eat", "far", "fig",
	"gas", "hat", "ink", "jar", "key", "log", "map", "net",
	"oak", "owl", "pan", "rat", "sea", "tan", "urn", "van",
	"win", "yak", "zoo", "art", "car", "word", "bomb", "party",
}

// LoadFallback installs the built-in fallback word set and marks
// UsingFallback true.
func (d *Dictionary) LoadFallback() {
	d.mu.Lock()
	defer d.mu.Unlock()

	words := make(map[string]struct{}, len(fallbackWords))
	for _, w := range fallbackWords {
		words[w] = struct{}{}
	}
	d.buildLocked(words)
	d.usingFallback = true
}

// buildLocked rebuilds the fragment index from words. Caller must hold
// d.mu for writing.
func (d *Dictionary) buildLocked(words map[string]struct{}) {
	fragmentWords := make(map[string]map[string]struct{})
	for w := range words {
		for _, frag := range fragmentsOf(w) {
			set, ok := fragmentWords[frag]
			if !ok {
				set = make(map[string]struct{})
				fragmentWords[frag] = set
			}
			set[w] = struct{}{}
		}
	}

	fragmentCount := make(map[string]int, len(fragmentWords))
	entries := make([]fragmentEntry, 0, len(fragmentWords))
	for frag, set := range fragmentWords {
		fragmentCount[frag] = len(set)
		entries = append(entries, fragmentEntry{fragment: frag, count: len(set)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].fragment < entries[j].fragment
	})

	d.words = words
	d.fragmentWords = fragmentWords
	d.fragmentCount = fragmentCount
	d.sortedByCount = entries
}

// fragmentsOf enumerates all contiguous substrings of lengths 2 and 3 for
// a word, per spec §4.1 Fragment index.
func fragmentsOf(w string) []string {
	var frags []string
	runes := []rune(w)
	n := len(runes)
	for l := 2; l <= 3; l++ {
		if n < l {
			continue
		}
		for i := 0; i+l <= n; i++ {
			frags = append(frags, string(runes[i:i+l]))
		}
	}
	return frags
}

// IsValid reports whether word is a member of the accepted set, per spec
// §4.1 Contract (case-insensitive, length <= 30).
func (d *Dictionary) IsValid(word string) bool {
	if len(word) > maxWordLength {
		return false
	}
	w := strings.ToLower(word)
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.words[w]
	return ok
}

// SampleFragment implements spec §4.1's sampling rule:
//  1. filter fragments with count >= minCount
//  2. if non-empty, choose uniformly at random
//  3. else, return the fragment with the highest count, tie-broken
//     lexicographically smallest
//  4. if no fragments exist at all, fail with DictionaryEmpty unless
//     testMode is set, in which case return "aa"
func (d *Dictionary) SampleFragment(minCount int) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.sortedByCount) == 0 {
		if d.testMode {
			return "aa", nil
		}
		return "", apperr.New(apperr.DictionaryEmpty, "no fragments available")
	}

	var qualifying []string
	for _, e := range d.sortedByCount {
		if e.count >= minCount {
			qualifying = append(qualifying, e.fragment)
		}
	}
	if len(qualifying) > 0 {
		idx := int(d.rng() * float64(len(qualifying)))
		if idx >= len(qualifying) {
			idx = len(qualifying) - 1
		}
		return qualifying[idx], nil
	}

	// sortedByCount is already sorted descending by count, tie-broken
	// lexicographically smallest, so the first entry is the answer.
	return d.sortedByCount[0].fragment, nil
}

// Stats reports word and fragment counts.
type Stats struct {
	WordCount     int
	FragmentCount int
}

func (d *Dictionary) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Stats{
		WordCount:     len(d.words),
		FragmentCount: len(d.fragmentCount),
	}
}

// UsingFallback reports whether the dictionary is running on the built-in
// fallback word set.
func (d *Dictionary) UsingFallback() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.usingFallback
}

// SetRNG overrides the sampling RNG, for deterministic tests.
func (d *Dictionary) SetRNG(rng func() float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rng = rng
}
