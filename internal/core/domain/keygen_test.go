package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/chartcache/internal/core/domain"
)

func recycled() domain.ContentInput {
	return domain.ContentInput{
		ConfidenceLevel: 0.95,
		Estimates: map[string]domain.Estimate{
			"recycled": {Mean: 0.42, Lower: 0.38, Upper: 0.46},
		},
	}
}

func TestRollingHash(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "0"},
		{in: "a", want: "2p"},
		{in: "ab", want: "2e9"},
		{in: "hello", want: "1n1e4y"},
		// Surrogate pairs hash as two code units.
		{in: "😀", want: "11zz7"},
		// Hashes to the minimum 32-bit value.
		{in: "polygenelubricants", want: "zik0zk"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.RollingHash(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, `cl=0.95;"recycled"=0.42,0.38,0.46;`, domain.Normalize(recycled()))
	assert.Equal(t, "cl=0;", domain.Normalize(domain.ContentInput{}))

	negZero := domain.ContentInput{
		Estimates: map[string]domain.Estimate{"x": {Mean: math.Copysign(0, -1)}},
	}
	assert.Equal(t, `cl=0;"x"=0,0,0;`, domain.Normalize(negZero))
}

func TestContentHash_Deterministic(t *testing.T) {
	a := domain.ContentInput{
		ConfidenceLevel: 0.9,
		Estimates: map[string]domain.Estimate{
			"glass":   {Mean: 1, Lower: 0.5, Upper: 1.5},
			"plastic": {Mean: 2, Lower: 1.5, Upper: 2.5},
			"metal":   {Mean: 3, Lower: 2.5, Upper: 3.5},
		},
	}
	b := domain.ContentInput{
		ConfidenceLevel: 0.9,
		Estimates: map[string]domain.Estimate{
			"metal":   {Mean: 3, Lower: 2.5, Upper: 3.5},
			"glass":   {Mean: 1, Lower: 0.5, Upper: 1.5},
			"plastic": {Mean: 2, Lower: 1.5, Upper: 2.5},
		},
	}

	want := domain.ContentHash(a)
	for range 20 {
		assert.Equal(t, want, domain.ContentHash(a))
		assert.Equal(t, want, domain.ContentHash(b))
	}
	assert.Equal(t, "ixrald", domain.ContentHash(recycled()))
}

func TestContentHash_Sensitive(t *testing.T) {
	base := domain.ContentHash(recycled())

	tests := []struct {
		name   string
		mutate func(*domain.ContentInput)
	}{
		{name: "mean", mutate: func(in *domain.ContentInput) {
			in.Estimates["recycled"] = domain.Estimate{Mean: 0.43, Lower: 0.38, Upper: 0.46}
		}},
		{name: "lower bound", mutate: func(in *domain.ContentInput) {
			in.Estimates["recycled"] = domain.Estimate{Mean: 0.42, Lower: 0.37, Upper: 0.46}
		}},
		{name: "upper bound", mutate: func(in *domain.ContentInput) {
			in.Estimates["recycled"] = domain.Estimate{Mean: 0.42, Lower: 0.38, Upper: 0.47}
		}},
		{name: "confidence level", mutate: func(in *domain.ContentInput) {
			in.ConfidenceLevel = 0.99
		}},
		{name: "label", mutate: func(in *domain.ContentInput) {
			in.Estimates = map[string]domain.Estimate{"reused": in.Estimates["recycled"]}
		}},
		{name: "extra series", mutate: func(in *domain.ContentInput) {
			in.Estimates["landfill"] = domain.Estimate{Mean: 0.1}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := recycled()
			tt.mutate(&in)
			assert.NotEqual(t, base, domain.ContentHash(in))
		})
	}
}
