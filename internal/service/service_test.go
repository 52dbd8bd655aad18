package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowcarboncode/gitdis/internal/gitdis"
	"github.com/lowcarboncode/gitdis/internal/value"
)

func TestAddBranch(t *testing.T) {
	co := gitdis.New(gitdis.GitdisSettings{TotalCacheItems: 10, CloneRoot: t.TempDir()}, nil)
	svc := New(co)

	resp, err := svc.AddBranch(gitdis.BranchSettings{
		URL:            "https://github.com/acme/demo.git",
		BranchName:     "main",
		PullIntervalMs: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, "acme/demo/main", resp.Key)
	assert.Equal(t, "main", resp.BranchName)
}

func TestGet_UnknownBranch(t *testing.T) {
	co := gitdis.New(gitdis.GitdisSettings{TotalCacheItems: 10, CloneRoot: t.TempDir()}, nil)
	svc := New(co)

	_, ok := svc.Get("nope/nope/main", "some.key")
	assert.False(t, ok)
}

func TestGet_PlainKeyAndSubPath(t *testing.T) {
	co := gitdis.New(gitdis.GitdisSettings{TotalCacheItems: 10, CloneRoot: t.TempDir()}, nil)
	svc := New(co)
	settings := gitdis.BranchSettings{URL: "https://github.com/acme/demo.git", BranchName: "main", PullIntervalMs: 1000}
	branch, err := co.AddBranch(settings)
	require.NoError(t, err)

	branch.Cache.Insert("app.name", value.String("demo"))
	obj := value.NewObject()
	obj.Set("host", value.String("db.internal"))
	branch.Cache.Insert("app.db", obj)

	v, ok := svc.Get(settings.Key(), "app.name")
	require.True(t, ok)
	assert.Equal(t, "demo", v.StringValue())

	v, ok = svc.Get(settings.Key(), "app.db(host)")
	require.True(t, ok)
	assert.Equal(t, "db.internal", v.StringValue())

	_, ok = svc.Get(settings.Key(), "app.db(missing)")
	assert.False(t, ok)

	_, ok = svc.Get(settings.Key(), "app.name(sub)")
	assert.False(t, ok)
}

func TestSplitLink(t *testing.T) {
	k, sub := splitLink("a.b.c")
	assert.Equal(t, "a.b.c", k)
	assert.Equal(t, "", sub)

	k, sub = splitLink("a.b(c.d)")
	assert.Equal(t, "a.b", k)
	assert.Equal(t, "c.d", sub)
}
