package services

import (
	"context"
	"time"
)

// PipelineStep is one decorative stage shown while an analysis is in flight.
// The steps do not correspond to any real processing.
type PipelineStep struct {
	Label string `json:"label"`
	Log   string `json:"log"`
}

var pipelineSteps = []PipelineStep{
	{Label: "Initializing Python Kernel", Log: ">>> import torch, spacy\n>>> loading \"en_core_web_trf\"..."},
	{Label: "Document OCR & Parsing", Log: ">>> pdfjs: extracting binary layers\n>>> mammoth: converting docx to xml"},
	{Label: "SQL DB Search", Log: ">>> SELECT * FROM resumes WHERE vector <=> %s ORDER BY similarity..."},
	{Label: "NER Feature Engineering", Log: ">>> transformer_ner.predict(text)\n>>> extracting professional entities..."},
	{Label: "Gradient Boosting Score", Log: ">>> xgboost.predict_proba(features)\n>>> calculating final decision matrix..."},
}

const DefaultStepInterval = 1800 * time.Millisecond

// ProgressTheater advances through the pipeline steps on a fixed interval and
// holds on the last one until stopped.
type ProgressTheater struct {
	interval time.Duration
}

func NewProgressTheater(interval time.Duration) *ProgressTheater {
	if interval <= 0 {
		interval = DefaultStepInterval
	}
	return &ProgressTheater{interval: interval}
}

func (p *ProgressTheater) Steps() []PipelineStep {
	steps := make([]PipelineStep, len(pipelineSteps))
	copy(steps, pipelineSteps)
	return steps
}

// StepAt returns the index of the step shown after elapsed time.
func (p *ProgressTheater) StepAt(elapsed time.Duration) int {
	if elapsed < 0 {
		return 0
	}
	step := int(elapsed / p.interval)
	if step > len(pipelineSteps)-1 {
		step = len(pipelineSteps) - 1
	}
	return step
}

// Run calls onStep for step 0 immediately and for each later step as the
// interval passes. It returns when ctx is done.
func (p *ProgressTheater) Run(ctx context.Context, onStep func(index int, step PipelineStep)) {
	onStep(0, pipelineSteps[0])

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	current := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if current >= len(pipelineSteps)-1 {
				continue
			}
			current++
			onStep(current, pipelineSteps[current])
		}
	}
}
