package textsplitter_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	slogmulti "github.com/samber/slog-multi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisiscore-systems/textsplitter"
	"github.com/crisiscore-systems/textsplitter/collector"
	"github.com/crisiscore-systems/textsplitter/dashboard"
	"github.com/crisiscore-systems/textsplitter/splitter"
)

func TestInstance_RunLines(t *testing.T) {
	inst := textsplitter.New()
	defer inst.Close()

	dir := t.TempDir()
	input := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(input, []byte("alpha\nbeta\ngamma\n"), 0o644))

	job, err := inst.RunLines(context.Background(), input, splitter.LineOptions{MaxChunkSize: 12})
	require.NoError(t, err)

	assert.Equal(t, collector.JobKindLines, job.Kind)
	assert.True(t, job.Finished())
	require.NotNil(t, job.Result)
	assert.Equal(t, []string{input + ".cc000.txt", input + ".cc001.txt"}, job.Result.Paths())

	jobs := inst.Jobs(10)
	require.Len(t, jobs, 1)
	assert.Equal(t, job.ID, jobs[0].ID)
}

func TestInstance_RunSections(t *testing.T) {
	inst := textsplitter.New()
	defer inst.Close()

	dir := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(input, []byte("# A\n"+strings.Repeat("a", 40)+"\n# B\n"+strings.Repeat("b", 40)+"\n"), 0o644))

	job, err := inst.RunSections(context.Background(), input, splitter.SectionOptions{
		MaxSectionSize: 50,
		MinSectionSize: 10,
		OutputDir:      filepath.Join(dir, "out"),
	})
	require.NoError(t, err)
	require.NotNil(t, job.Result)
	assert.Equal(t, []string{
		filepath.Join(dir, "out", "doc_section_001.md"),
		filepath.Join(dir, "out", "doc_section_002.md"),
	}, job.Result.Paths())
}

func TestInstance_RunFailureIsRecorded(t *testing.T) {
	inst := textsplitter.New()
	defer inst.Close()

	job, err := inst.RunLines(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), splitter.LineOptions{})
	require.ErrorIs(t, err, splitter.ErrInputNotFound)
	assert.True(t, job.Failed())

	_, err = inst.RunLines(context.Background(), "unused", splitter.LineOptions{MaxChunkSize: -1})
	assert.ErrorIs(t, err, splitter.ErrInvalidChunkSize)
	assert.Len(t, inst.Jobs(10), 1)
}

func TestE2E(t *testing.T) {
	inst := textsplitter.NewWithOptions(textsplitter.Options{
		LogCapacity: 500,
		JobCapacity: 50,
	})
	defer inst.Close()

	logger := slog.New(slogmulti.Fanout(
		inst.CollectSlogLogs(collector.CollectSlogLogsOptions{Level: slog.LevelInfo}),
	))
	inst.SetLogger(logger)

	outDir := t.TempDir()
	mux := http.NewServeMux()
	mux.Handle("/splitter/", http.StripPrefix("/splitter", inst.DashboardHandler("/splitter", dashboard.WithOutputDir(outDir))))

	server := httptest.NewServer(mux)
	defer server.Close()

	client := server.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	inputDir := t.TempDir()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				input := filepath.Join(inputDir, fmt.Sprintf("input-%d-%d.txt", i, j))
				if err := os.WriteFile(input, []byte(strings.Repeat("some text line\n", 200)), 0o644); err != nil {
					t.Errorf("Failed to write input: %v", err)
					continue
				}

				resp, err := client.PostForm(server.URL+"/splitter/split", url.Values{
					"input":       {input},
					"chunkSizeKB": {"1"},
					"mode":        {"lines"},
				})
				if err != nil {
					t.Errorf("Failed to make request: %v", err)
					continue
				}
				resp.Body.Close()

				if resp.StatusCode != http.StatusSeeOther {
					t.Errorf("Expected status 303 See Other, got %d", resp.StatusCode)
				}
				if location := resp.Header.Get("Location"); !strings.HasPrefix(location, "/splitter/?job=") {
					t.Errorf("Unexpected redirect to %q", location)
				}
			}
		}()
	}

	wg.Wait()

	jobs := inst.Jobs(50)
	require.Len(t, jobs, 20)
	for _, job := range jobs {
		assert.False(t, job.Failed(), job.Err)
		require.NotNil(t, job.Result)
		// 3000 bytes in chunks of at most 1024 bytes
		assert.Len(t, job.Result.Chunks, 3)
	}

	resp, err := client.Get(server.URL + "/splitter/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
