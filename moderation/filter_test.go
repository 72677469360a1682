package moderation

import (
	"testing"

	"support-thread/errors"

	"github.com/stretchr/testify/require"
)

func TestFilter_CensorsBlockedWords(t *testing.T) {
	req := require.New(t)
	filter, err := NewFilter([]string{"refundscam", "idiot"}, '*')
	req.NoError(err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no match", "my order never arrived", "my order never arrived"},
		{"single match", "you idiot", "you *****"},
		{"case insensitive", "you IdIoT", "you *****"},
		{"multiple matches", "idiot idiot", "***** *****"},
		{"match inside word", "refundscammer", "**********mer"},
		{"leet speak", "you 1d10t", "you *****"},
		{"leet speak mixed case", "rEfUnd$c4m ahead", "********** ahead"},
		{"noise separated", "you i.d.i.o.t", "you *********"},
		{"spaced out", "i d i o t", "*********"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, filter.Apply(tt.input))
		})
	}
}

func TestFilter_EmptyWordList(t *testing.T) {
	_, err := NewFilter(nil, '*')
	require.ErrorIs(t, err, errors.ErrEmptyWords)
}
