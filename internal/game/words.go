package game

import (
	"errors"
	"math/rand"
	"os"
	"strings"
)

// WordSource yields the next secret word. Injectable so tests can pin the
// vocabulary.
type WordSource func() string

var defaultWords = []string{
	"cat", "dog", "house", "tree", "car", "sun", "moon", "book",
	"computer", "phone", "pizza", "beach", "mountain", "flower",
	"bird", "fish", "airplane", "boat", "train", "bicycle",
}

// DefaultWords picks uniformly from the built-in vocabulary.
func DefaultWords() WordSource {
	return func() string {
		return defaultWords[rand.Intn(len(defaultWords))]
	}
}

// FileWords loads a newline-separated word bank from disk.
func FileWords(path string) (WordSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	words := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" {
			words = append(words, l)
		}
	}
	if len(words) == 0 {
		return nil, errors.New("word bank empty after parsing")
	}
	return func() string {
		return words[rand.Intn(len(words))]
	}, nil
}
