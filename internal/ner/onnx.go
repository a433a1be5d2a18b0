//go:build cgo
// +build cgo

package ner

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/clinterm/icdrec/internal/models"
)

// ModelExtractor runs an ONNX token-classification model. It requires CGO and
// the onnxruntime shared library.
type ModelExtractor struct {
	session   *ort.AdvancedSession
	tokenizer *WordPieceTokenizer
	labels    []string
	maxTokens int
	// Pre-allocated tensors for Run(); we update input data and read output.
	inputIDsTensor      *ort.Tensor[int64]
	attentionMaskTensor *ort.Tensor[int64]
	tokenTypeIDsTensor  *ort.Tensor[int64]
	outputTensor        *ort.Tensor[float32]
	mu                  sync.Mutex
}

// NewModelExtractor creates a model-backed extractor from cfg.
// InitializeEnvironment is called if not already done.
func NewModelExtractor(cfg Config) (*ModelExtractor, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}

	tokenizer, err := NewWordPieceTokenizer(cfg.VocabPath)
	if err != nil {
		return nil, err
	}
	labels, err := loadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, err
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 256
	}

	inputIDs, attentionMask, tokenTypeIDs, _ := tokenizer.Tokenize("", maxTokens)

	inputIDsTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens)), inputIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	attentionMaskTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens)), attentionMask)
	if err != nil {
		inputIDsTensor.Destroy()
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	tokenTypeIDsTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens)), tokenTypeIDs)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		return nil, fmt.Errorf("failed to create token_type_ids tensor: %w", err)
	}
	outputData := make([]float32, maxTokens*len(labels))
	outputTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens), int64(len(labels))), outputData)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		tokenTypeIDsTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	inputs := []ort.ArbitraryTensor{inputIDsTensor, attentionMaskTensor, tokenTypeIDsTensor}
	outputs := []ort.ArbitraryTensor{outputTensor}
	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"logits"},
		inputs,
		outputs,
		nil,
	)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		tokenTypeIDsTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ModelExtractor{
		session:             session,
		tokenizer:           tokenizer,
		labels:              labels,
		maxTokens:           maxTokens,
		inputIDsTensor:      inputIDsTensor,
		attentionMaskTensor: attentionMaskTensor,
		tokenTypeIDsTensor:  tokenTypeIDsTensor,
		outputTensor:        outputTensor,
	}, nil
}

// loadLabels reads the model's class labels, one per line, line number = class id.
func loadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open labels: %w", err)
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		labels = append(labels, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", path)
	}
	return labels, nil
}

// tokenPrediction is the argmax class for one input position.
type tokenPrediction struct {
	group string
	begin bool
	score float64
	start int
	end   int
}

// Extract runs the model and aggregates token predictions into entities at or
// above threshold, in token order.
func (m *ModelExtractor) Extract(ctx context.Context, text string, threshold float64) ([]models.Entity, error) {
	m.mu.Lock()
	inputIDs, attentionMask, tokenTypeIDs, offsets := m.tokenizer.Tokenize(text, m.maxTokens)
	copy(m.inputIDsTensor.GetData(), inputIDs)
	copy(m.attentionMaskTensor.GetData(), attentionMask)
	copy(m.tokenTypeIDsTensor.GetData(), tokenTypeIDs)

	if err := m.session.Run(); err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	logits := make([]float32, m.maxTokens*len(m.labels))
	copy(logits, m.outputTensor.GetData())
	m.mu.Unlock()

	var preds []tokenPrediction
	numLabels := len(m.labels)
	for pos := 0; pos < m.maxTokens; pos++ {
		if attentionMask[pos] == 0 || offsets[pos][0] < 0 {
			continue
		}
		class, score := softmaxArgmax(logits[pos*numLabels : (pos+1)*numLabels])
		label := m.labels[class]
		if label == "O" {
			continue
		}
		group := label
		begin := false
		if strings.HasPrefix(label, "B-") {
			group, begin = label[2:], true
		} else if strings.HasPrefix(label, "I-") {
			group = label[2:]
		}
		preds = append(preds, tokenPrediction{
			group: group,
			begin: begin,
			score: score,
			start: offsets[pos][0],
			end:   offsets[pos][1],
		})
	}

	return aggregate(text, preds, threshold), nil
}

// aggregate merges contiguous same-group predictions into entities (simple
// aggregation), averaging token scores, and filters by threshold.
func aggregate(text string, preds []tokenPrediction, threshold float64) []models.Entity {
	entities := []models.Entity{}
	i := 0
	for i < len(preds) {
		start, end := preds[i].start, preds[i].end
		group := preds[i].group
		scoreSum := preds[i].score
		count := 1
		j := i + 1
		for j < len(preds) && preds[j].group == group && !preds[j].begin && preds[j].start <= end+1 {
			if preds[j].end > end {
				end = preds[j].end
			}
			scoreSum += preds[j].score
			count++
			j++
		}
		confidence := scoreSum / float64(count)
		if confidence >= threshold {
			entities = append(entities, models.Entity{
				Text:       text[start:end],
				Label:      canonicalLabel(group),
				Confidence: confidence,
				Start:      start,
				End:        end,
			})
		}
		i = j
	}
	return entities
}

// canonicalLabel maps common biomedical model entity groups onto the labels
// the scorer filters on; unknown groups pass through uppercased.
func canonicalLabel(group string) models.EntityLabel {
	switch strings.ToUpper(group) {
	case "DISEASE", "DISEASE_DISORDER":
		return models.LabelDisease
	case "SYMPTOM", "SIGN_SYMPTOM":
		return models.LabelSymptom
	case "MEDICATION", "DRUG", "CHEMICAL":
		return models.LabelMedication
	case "ANATOMY", "BIOLOGICAL_STRUCTURE", "BODY_PART":
		return models.LabelAnatomy
	default:
		return models.EntityLabel(strings.ToUpper(group))
	}
}

// softmaxArgmax returns the argmax class and its softmax probability.
func softmaxArgmax(logits []float32) (int, float64) {
	maxIdx := 0
	maxVal := logits[0]
	for i, v := range logits {
		if v > maxVal {
			maxIdx, maxVal = i, v
		}
	}
	var sum float64
	for _, v := range logits {
		sum += math.Exp(float64(v - maxVal))
	}
	return maxIdx, 1.0 / sum
}

// Close destroys the session and tensors.
func (m *ModelExtractor) Close() error {
	var err error
	if m.session != nil {
		err = m.session.Destroy()
		m.session = nil
	}
	if m.inputIDsTensor != nil {
		_ = m.inputIDsTensor.Destroy()
		m.inputIDsTensor = nil
	}
	if m.attentionMaskTensor != nil {
		_ = m.attentionMaskTensor.Destroy()
		m.attentionMaskTensor = nil
	}
	if m.tokenTypeIDsTensor != nil {
		_ = m.tokenTypeIDsTensor.Destroy()
		m.tokenTypeIDsTensor = nil
	}
	if m.outputTensor != nil {
		_ = m.outputTensor.Destroy()
		m.outputTensor = nil
	}
	return err
}
