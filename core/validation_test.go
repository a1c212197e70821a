package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		wantErr error
	}{
		{name: "valid", msg: NewMessage("whatsapp:254700000000", "hello")},
		{name: "empty text is valid", msg: Message{SenderID: "u1"}},
		{name: "missing sender", msg: Message{Text: "hi"}, wantErr: ErrEmptySender},
		{
			name:    "future timestamp",
			msg:     Message{SenderID: "u1", Text: "hi", ReceivedAt: time.Now().Add(time.Hour)},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessage(tt.msg)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateMessage() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrInvalidMessage) {
				t.Errorf("ValidateMessage() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateListing(t *testing.T) {
	tests := []struct {
		name    string
		listing *Listing
		wantErr error
	}{
		{name: "valid", listing: &Listing{Title: "Bedsitter", Price: Float(7000)}},
		{name: "no price is valid", listing: &Listing{Title: "Bedsitter"}},
		{name: "nil listing", listing: nil, wantErr: ErrInvalidListing},
		{name: "empty title", listing: &Listing{}, wantErr: ErrEmptyTitle},
		{name: "negative price", listing: &Listing{Title: "x", Price: Float(-1)}, wantErr: ErrNegativePrice},
		{name: "rating too high", listing: &Listing{Title: "x", NeighborhoodRating: Float(11)}, wantErr: ErrRatingOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateListing(tt.listing)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateListing() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateListing() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTraceStep(t *testing.T) {
	if err := ValidateTraceStep(TraceStep{StepNo: 1, StepType: StepPlan}); err != nil {
		t.Errorf("ValidateTraceStep() unexpected error: %v", err)
	}
	if err := ValidateTraceStep(TraceStep{StepNo: 1, StepType: "observe"}); !errors.Is(err, ErrInvalidStepType) {
		t.Errorf("ValidateTraceStep() error = %v, want ErrInvalidStepType", err)
	}
	if err := ValidateTraceStep(TraceStep{StepNo: 0, StepType: StepAct}); !errors.Is(err, ErrInvalidTraceStep) {
		t.Errorf("ValidateTraceStep() error = %v, want ErrInvalidTraceStep", err)
	}
}
