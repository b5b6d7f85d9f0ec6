package api_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wahlandcase/attuned.audit/internal/api"
	"github.com/wahlandcase/attuned.audit/internal/models"
)

func TestDryRunPagination(t *testing.T) {
	backend := api.NewDryRun(0)
	ctx := context.Background()

	var sizes []int
	for page := 1; page <= 3; page++ {
		commits, err := backend.FetchCommits(ctx, "https://github.com/o/r", page)
		require.NoError(t, err)
		sizes = append(sizes, len(commits))
	}
	require.Equal(t, []int{10, 10, 5}, sizes)
}

func TestDryRunAnalysisParses(t *testing.T) {
	backend := api.NewDryRun(0)

	resp, err := backend.Ingest(context.Background(), api.IngestRequest{GithubURL: "https://github.com/o/r/commit/abc"})
	require.NoError(t, err)

	result, err := models.ParseAnalysis(resp.Analysis)
	require.NoError(t, err)
	require.NotEmpty(t, result.Summary)
	require.Len(t, result.Faults, 2)
}

func TestDryRunTagRequiresRecord(t *testing.T) {
	backend := api.NewDryRun(0)
	ctx := context.Background()

	_, err := backend.UpdateTag(ctx, "abc", "v1")
	require.True(t, models.IsNotFound(err))

	_, err = backend.SaveHistory(ctx, api.SaveHistoryRequest{CommitSHA: "abc", RepoURL: "r", AnalysisJSON: "{}", Tag: "v0"})
	require.NoError(t, err)

	record, err := backend.UpdateTag(ctx, "abc", "v1")
	require.NoError(t, err)
	require.Equal(t, "v1", record.Tag)
}
