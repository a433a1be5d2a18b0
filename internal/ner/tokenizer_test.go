package ner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeVocab(t *testing.T, tokens []string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.txt")
	data := ""
	for _, tok := range tokens {
		data += tok + "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewWordPieceTokenizer(t *testing.T) {
	t.Run("missing special tokens rejected", func(t *testing.T) {
		path := writeVocab(t, []string{"hello", "world"})
		if _, err := NewWordPieceTokenizer(path); err == nil {
			t.Error("vocab without special tokens should be rejected")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := NewWordPieceTokenizer("/nonexistent/vocab.txt"); err == nil {
			t.Error("missing vocab file should error")
		}
	})
}

func TestWordPieceTokenizer_Tokenize(t *testing.T) {
	path := writeVocab(t, []string{
		"[PAD]", "[UNK]", "[CLS]", "[SEP]",
		"chest", "pain", "head", "##ache", ",",
	})
	tok, err := NewWordPieceTokenizer(path)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("words and subwords", func(t *testing.T) {
		text := "chest pain, headache"
		ids, mask, types, offsets := tok.Tokenize(text, 16)
		// [CLS] chest pain , head ##ache [SEP]
		want := []int64{2, 4, 5, 8, 6, 7, 3}
		for i, w := range want {
			if ids[i] != w {
				t.Fatalf("ids[%d] = %d, want %d (ids: %v)", i, ids[i], w, ids[:8])
			}
			if mask[i] != 1 {
				t.Errorf("mask[%d] = %d, want 1", i, mask[i])
			}
		}
		if mask[len(want)] != 0 {
			t.Error("padding should have zero attention")
		}
		for _, ty := range types {
			if ty != 0 {
				t.Error("token_type_ids should be all zero for single sequence")
			}
		}
		// "head" and "##ache" both cover the word "headache".
		if text[offsets[4][0]:offsets[4][1]] != "headache" {
			t.Errorf("subword offset covers %q", text[offsets[4][0]:offsets[4][1]])
		}
		if text[offsets[5][0]:offsets[5][1]] != "headache" {
			t.Errorf("subword offset covers %q", text[offsets[5][0]:offsets[5][1]])
		}
		// Special tokens have sentinel offsets.
		if offsets[0] != [2]int{-1, -1} {
			t.Errorf("CLS offset = %v", offsets[0])
		}
	})

	t.Run("unknown word maps to UNK", func(t *testing.T) {
		ids, _, _, _ := tok.Tokenize("zzz", 8)
		if ids[1] != 1 {
			t.Errorf("ids[1] = %d, want [UNK] id 1", ids[1])
		}
	})

	t.Run("lowercases for matching", func(t *testing.T) {
		ids, _, _, offsets := tok.Tokenize("CHEST", 8)
		if ids[1] != 4 {
			t.Errorf("ids[1] = %d, want chest id 4", ids[1])
		}
		if offsets[1] != [2]int{0, 5} {
			t.Errorf("offsets[1] = %v", offsets[1])
		}
	})

	t.Run("truncates long input", func(t *testing.T) {
		ids, mask, _, _ := tok.Tokenize("chest pain chest pain chest pain chest pain", 6)
		if len(ids) != 6 || len(mask) != 6 {
			t.Fatalf("lengths: %d %d", len(ids), len(mask))
		}
		// Last attended position is [SEP].
		last := -1
		for i, m := range mask {
			if m == 1 {
				last = i
			}
		}
		if ids[last] != 3 {
			t.Errorf("last attended id = %d, want [SEP] 3", ids[last])
		}
	})
}

func TestSplitWords(t *testing.T) {
	spans := splitWords("chest pain, severe")
	var got []string
	for _, s := range spans {
		got = append(got, s.text)
	}
	want := []string{"chest", "pain", ",", "severe"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
