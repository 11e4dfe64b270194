// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lexchat/internal/model"
)

var criminalCode = model.Citation{
	SourceID:    "c1",
	ArticleName: "Criminal Code",
	Section:     "Art. 5",
	Content:     "Whoever commits theft...",
}

func TestResolve_AssistantScenario(t *testing.T) {
	turn := model.NewAssistantTurn("See [[c1]] for details.", []model.Citation{criminalCode}, nil)

	segments := Resolve(turn)
	require.Len(t, segments, 3)

	assert.Equal(t, SegmentText, segments[0].Kind)
	assert.Equal(t, "See ", segments[0].Text)

	ref := segments[1]
	assert.True(t, ref.Activatable())
	assert.Equal(t, "[[c1]]", ref.Text)
	assert.Equal(t, 0, ref.Index)
	require.NotNil(t, ref.Citation)
	assert.Equal(t, criminalCode, *ref.Citation)

	assert.Equal(t, " for details.", segments[2].Text)
	assert.False(t, segments[2].Activatable())
}

func TestResolve_UnresolvedMarkerIsPlain(t *testing.T) {
	turn := model.NewAssistantTurn("See [[c9]] and [[C1]].", []model.Citation{criminalCode}, nil)

	for _, s := range Resolve(turn) {
		assert.False(t, s.Activatable(), "segment %q must not be activatable", s.Text)
		assert.Nil(t, s.Citation)
	}
	assert.Empty(t, References(turn))
}

func TestResolve_UserTurnVerbatim(t *testing.T) {
	turn := model.NewUserTurn("Pretend [[c1]] is a citation")
	turn.Citations = []model.Citation{criminalCode}

	segments := Resolve(turn)
	require.Len(t, segments, 1)
	assert.Equal(t, SegmentText, segments[0].Kind)
	assert.Equal(t, turn.Content, segments[0].Text)
	assert.Empty(t, References(turn))
}

func TestResolve_Lossless(t *testing.T) {
	content := "A [[c1]] B [[zz]] C [[]] D [[c2]]"
	turn := model.NewAssistantTurn(content, []model.Citation{
		criminalCode,
		{SourceID: "c2", ArticleName: "Civil Code"},
	}, nil)

	var joined string
	for _, s := range Resolve(turn) {
		joined += s.Text
	}
	assert.Equal(t, content, joined)

	refs := References(turn)
	require.Len(t, refs, 2)
	assert.Equal(t, "c1", refs[0].Citation.SourceID)
	assert.Equal(t, "c2", refs[1].Citation.SourceID)
	assert.Equal(t, 1, refs[1].Index)
}

func TestResolve_EmptyContent(t *testing.T) {
	assert.Nil(t, Resolve(model.NewAssistantTurn("", []model.Citation{criminalCode}, nil)))
}

func TestPlain(t *testing.T) {
	turn := model.NewAssistantTurn("See [[c2]] and [[c1]], not [[x]].", []model.Citation{
		criminalCode,
		{SourceID: "c2", ArticleName: "Civil Code"},
	}, nil)

	assert.Equal(t, "See [2] and [1], not [[x]].", Plain(turn))
}

func TestSegmentKind_String(t *testing.T) {
	assert.Equal(t, "text", SegmentText.String())
	assert.Equal(t, "reference", SegmentReference.String())
	assert.Equal(t, "unresolved", SegmentUnresolved.String())
}
