package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAnswerSingleChoice(t *testing.T) {
	q := &Question{ID: "q1", Type: QuestionSingleChoice}

	tests := []struct {
		name    string
		data    AnswerData
		want    Value
		wantErr bool
	}{
		{
			name: "valid option",
			data: AnswerData{SelectedOption: "opt_a"},
			want: Value{Kind: ValueChoice, Choice: "opt_a"},
		},
		{
			name:    "list rejected",
			data:    AnswerData{SelectedOptions: []string{"opt_a", "opt_b"}},
			wantErr: true,
		},
		{
			name:    "empty",
			data:    AnswerData{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAnswer(q, &Answer{QuestionID: q.ID, Data: tt.data})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsMalformedAnswer(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeAnswerMultipleChoice(t *testing.T) {
	q := &Question{ID: "q1", Type: QuestionMultipleChoice}

	tests := []struct {
		name    string
		data    AnswerData
		want    []string
		wantErr bool
	}{
		{
			name: "list preserved",
			data: AnswerData{SelectedOptions: []string{"b", "a", "c"}},
			want: []string{"b", "a", "c"},
		},
		{
			name: "duplicates collapsed keeping first-seen order",
			data: AnswerData{SelectedOptions: []string{"b", "a", "b", "a"}},
			want: []string{"b", "a"},
		},
		{
			name: "scalar promoted to list",
			data: AnswerData{SelectedOption: "a"},
			want: []string{"a"},
		},
		{
			name:    "empty",
			data:    AnswerData{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAnswer(q, &Answer{QuestionID: q.ID, Data: tt.data})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ValueMultiChoice, got.Kind)
			assert.Equal(t, tt.want, got.Choices)
		})
	}
}

func TestNormalizeAnswerScale(t *testing.T) {
	q := &Question{ID: "q1", Type: QuestionLikert, ScaleMin: 1, ScaleMax: 5}

	tests := []struct {
		name    string
		data    AnswerData
		want    float64
		wantErr bool
	}{
		{name: "number field", data: AnswerData{Number: "4"}, want: 4},
		{name: "decimal", data: AnswerData{Number: "3.5"}, want: 3.5},
		{name: "text fallback", data: AnswerData{Text: "2"}, want: 2},
		{name: "whitespace trimmed", data: AnswerData{Number: " 3 "}, want: 3},
		{name: "non-numeric", data: AnswerData{Number: "lots"}, wantErr: true},
		{name: "missing", data: AnswerData{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAnswer(q, &Answer{QuestionID: q.ID, Data: tt.data})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsMalformedAnswer(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ValueScale, got.Kind)
			assert.Equal(t, tt.want, got.Scale)
		})
	}
}

func TestNormalizeAnswerTraderRating(t *testing.T) {
	q := &Question{ID: "q1", Type: QuestionTraderRating}

	tests := []struct {
		name    string
		data    AnswerData
		want    int
		wantErr bool
	}{
		{name: "min", data: AnswerData{Number: "1"}, want: 1},
		{name: "max", data: AnswerData{Number: "10"}, want: 10},
		{name: "below range never clamped", data: AnswerData{Number: "0"}, wantErr: true},
		{name: "above range never clamped", data: AnswerData{Number: "11"}, wantErr: true},
		{name: "non-integer", data: AnswerData{Number: "7.5"}, wantErr: true},
		{name: "list rejected", data: AnswerData{SelectedOptions: []string{"7"}}, wantErr: true},
		{name: "missing", data: AnswerData{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAnswer(q, &Answer{QuestionID: q.ID, Data: tt.data})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsMalformedAnswer(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ValueRating, got.Kind)
			assert.Equal(t, tt.want, got.Rating)
		})
	}
}

func TestNormalizeAnswerText(t *testing.T) {
	q := &Question{ID: "q1", Type: QuestionLongText}

	got, err := NormalizeAnswer(q, &Answer{QuestionID: q.ID, Data: AnswerData{Text: "some feedback"}})
	require.NoError(t, err)
	assert.Equal(t, ValueText, got.Kind)
	assert.Equal(t, "some feedback", got.Text)
	assert.False(t, got.IsEmptyText())

	blank, err := NormalizeAnswer(q, &Answer{QuestionID: q.ID, Data: AnswerData{Text: "   "}})
	require.NoError(t, err)
	assert.True(t, blank.IsEmptyText())
}

func TestNormalizeAnswerInstruction(t *testing.T) {
	q := &Question{ID: "q1", Type: QuestionInstruction}

	_, err := NormalizeAnswer(q, &Answer{QuestionID: q.ID, Data: AnswerData{Text: "hi"}})
	require.Error(t, err)
	assert.True(t, IsMalformedAnswer(err))
}
