// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/galleria/pkg/slug"
)

/*
TestFrom checks the slug transformation pipeline.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Juhlat", "juhlat"},
		{"spaces_become_hyphens", "DSC 0042", "dsc-0042"},
		{"accents_stripped", "Kesäjuhlat à la carte", "kesajuhlat-a-la-carte"},
		{"punctuation_collapsed", "Juhlat!!! (2023)", "juhlat-2023"},
		{"trimmed_hyphens", "--Juhlat--", "juhlat"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
