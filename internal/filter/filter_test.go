package filter

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/studiowebux/orgsocial/internal/orgsocial"
)

var testPosts = []orgsocial.Post{
	{ID: "1", Author: "alice", Content: "emacs tips", Tags: []string{"emacs", "tips"}},
	{ID: "2", Author: "bob", Content: "lunch", Tags: []string{"food"}},
	{ID: "3", Author: "alice", Content: "org mode", Tags: []string{"Emacs"}, Mood: "😀"},
}

func TestApplyToPosts_Expressions(t *testing.T) {
	tests := []struct {
		name    string
		filter  string
		query   string
		want    string
		wantErr bool
	}{
		{
			name:   "filter then query",
			filter: "[?author=='alice']",
			query:  "[].id",
			want:   "[\n  \"1\",\n  \"3\"\n]",
		},
		{
			name:  "query only",
			query: "length(@)",
			want:  "3",
		},
		{
			name:  "null result",
			query: "[0].missing",
			want:  "null",
		},
		{
			name:    "bad expression",
			filter:  "[?",
			wantErr: true,
		},
		{
			name:   "shell query gets the filtered listing",
			filter: "[?author=='bob'].id",
			query:  "$(tr -d ' \\n')",
			want:   `["2"]`,
		},
		{
			name:    "failing shell query",
			query:   "$(exit 3)",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyToPosts(context.Background(), testPosts, tt.filter, tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyToPosts error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && strings.TrimSpace(got) != tt.want {
				t.Errorf("ApplyToPosts = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyToPosts_CancelledShell(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ApplyToPosts(ctx, testPosts, "", "$(cat)"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestApplyToPosts(t *testing.T) {
	out, err := ApplyToPosts(context.Background(), testPosts, "[?contains(tags, 'emacs')]", "[].id")
	if err != nil {
		t.Fatalf("ApplyToPosts: %v", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(out), &ids); err != nil {
		t.Fatalf("output not JSON: %v\n%s", err, out)
	}
	if !reflect.DeepEqual(ids, []string{"1"}) {
		t.Errorf("ids = %v", ids)
	}
}

func TestApplyToPosts_NoExpressions(t *testing.T) {
	out, err := ApplyToPosts(context.Background(), nil, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if out != "[]" {
		t.Errorf("empty listing = %q, want []", out)
	}
}

func TestFilterByTags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{"no filter", nil, []string{"1", "2", "3"}},
		{"case insensitive", []string{"emacs"}, []string{"1", "3"}},
		{"hash prefix", []string{"#food"}, []string{"2"}},
		{"no match", []string{"rust"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, p := range FilterByTags(testPosts, tt.tags) {
				got = append(got, p.ID)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterByTags(%v) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}

func TestShellCommand(t *testing.T) {
	if cmd, ok := ShellCommand("$(jq .)"); !ok || cmd != "jq ." {
		t.Errorf("ShellCommand($(jq .)) = %q, %v", cmd, ok)
	}
	if _, ok := ShellCommand("[].id"); ok {
		t.Error("[].id is JMESPath")
	}
}
