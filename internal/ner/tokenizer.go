package ner

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// WordPieceTokenizer tokenizes text for BERT-style token classification
// models using a vocab file (one token per line, line number = id).
// Matching is lowercased (uncased models); offsets refer to the original text.
type WordPieceTokenizer struct {
	vocab map[string]int64
	unkID int64
	clsID int64
	sepID int64
	padID int64
}

// NewWordPieceTokenizer loads a vocab file.
func NewWordPieceTokenizer(vocabPath string) (*WordPieceTokenizer, error) {
	f, err := os.Open(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocab: %w", err)
	}
	defer f.Close()

	vocab := make(map[string]int64)
	scanner := bufio.NewScanner(f)
	var id int64
	for scanner.Scan() {
		vocab[strings.TrimSpace(scanner.Text())] = id
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocab: %w", err)
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("vocab file %s is empty", vocabPath)
	}

	t := &WordPieceTokenizer{vocab: vocab}
	var ok bool
	if t.unkID, ok = vocab["[UNK]"]; !ok {
		return nil, fmt.Errorf("vocab missing [UNK]")
	}
	if t.clsID, ok = vocab["[CLS]"]; !ok {
		return nil, fmt.Errorf("vocab missing [CLS]")
	}
	if t.sepID, ok = vocab["[SEP]"]; !ok {
		return nil, fmt.Errorf("vocab missing [SEP]")
	}
	t.padID = vocab["[PAD]"]
	return t, nil
}

// span is a pre-tokenized word with its byte offsets in the original text.
type span struct {
	text  string
	start int
	end   int
}

// splitWords splits text into words and standalone punctuation, keeping offsets.
func splitWords(text string) []span {
	var spans []span
	start := -1
	for i, r := range text {
		switch {
		case unicode.IsSpace(r):
			if start >= 0 {
				spans = append(spans, span{text[start:i], start, i})
				start = -1
			}
		case unicode.IsPunct(r):
			if start >= 0 {
				spans = append(spans, span{text[start:i], start, i})
				start = -1
			}
			spans = append(spans, span{string(r), i, i + len(string(r))})
		default:
			if start < 0 {
				start = i
			}
		}
	}
	if start >= 0 {
		spans = append(spans, span{text[start:], start, len(text)})
	}
	return spans
}

// Tokenize encodes text into padded model inputs of length maxTokens and
// returns the byte offsets of each position ({-1,-1} for special tokens and
// padding). Words that exceed the window are truncated.
func (t *WordPieceTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64, offsets [][2]int) {
	if maxTokens <= 0 {
		maxTokens = 256
	}
	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)
	offsets = make([][2]int, maxTokens)
	for i := range inputIDs {
		inputIDs[i] = t.padID
		offsets[i] = [2]int{-1, -1}
	}

	inputIDs[0] = t.clsID
	attentionMask[0] = 1

	pos := 1
	for _, w := range splitWords(text) {
		pieces := t.wordpiece(strings.ToLower(w.text))
		if pos+len(pieces) > maxTokens-1 {
			break
		}
		// Offsets of sub-word pieces all cover the whole word; aggregation
		// merges them back anyway.
		for _, id := range pieces {
			inputIDs[pos] = id
			attentionMask[pos] = 1
			offsets[pos] = [2]int{w.start, w.end}
			pos++
		}
	}
	inputIDs[pos] = t.sepID
	attentionMask[pos] = 1
	return inputIDs, attentionMask, tokenTypeIDs, offsets
}

// wordpiece splits one word greedily into vocab pieces, longest match first.
// Unknown words map to a single [UNK].
func (t *WordPieceTokenizer) wordpiece(word string) []int64 {
	var ids []int64
	runes := []rune(word)
	i := 0
	for i < len(runes) {
		end := len(runes)
		var match int64 = -1
		for end > i {
			piece := string(runes[i:end])
			if i > 0 {
				piece = "##" + piece
			}
			if id, ok := t.vocab[piece]; ok {
				match = id
				break
			}
			end--
		}
		if match < 0 {
			return []int64{t.unkID}
		}
		ids = append(ids, match)
		i = end
	}
	if len(ids) == 0 {
		return []int64{t.unkID}
	}
	return ids
}
