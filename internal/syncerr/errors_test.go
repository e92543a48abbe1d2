package syncerr

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klauern/agentsync/internal/model"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("reading state: %w", Parse(".agents/config.json", errors.New("unexpected EOF")))

	assert.ErrorIs(t, err, ErrParse)
	assert.NotErrorIs(t, err, ErrWrite)
	assert.Equal(t, KindParse, KindOf(err))
}

func TestErrorUnwrap(t *testing.T) {
	err := Write("out/file.json", fs.ErrPermission)

	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.ErrorIs(t, err, ErrWrite)
	assert.Contains(t, err.Error(), "out/file.json")
}

func TestValidationMessageListsIssues(t *testing.T) {
	err := Validation("invalid source",
		model.Issue{Path: []string{"config.json", "tools"}, Message: "expected object"},
		model.Issue{Path: []string{"rules/a.md", "paths"}, Message: "required"},
	)

	msg := err.Error()
	require.True(t, strings.HasPrefix(msg, "validation error: invalid source"), msg)
	assert.Contains(t, msg, "config.json.tools: expected object")
	assert.Contains(t, msg, "rules/a.md.paths: required")
	assert.Len(t, err.Issues, 2)
}

func TestErrorMessages(t *testing.T) {
	tests := map[string]struct {
		err  *Error
		want string
	}{
		"parse": {
			err:  Parse(".agents/config.json", errors.New("unexpected EOF")),
			want: "parse error [.agents/config.json]: unexpected EOF",
		},
		"not found": {
			err:  NotFound("/tmp/proj/.agents", "managed directory"),
			want: "not found [/tmp/proj/.agents]: managed directory",
		},
		"write": {
			err:  Write("CLAUDE.md", fs.ErrPermission),
			want: "write error [CLAUDE.md]: permission denied",
		},
		"plugin": {
			err:  Plugin("cursor", errors.New("bad glob")),
			want: "plugin error [cursor]: bad glob",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}
