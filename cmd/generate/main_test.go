package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/draftrank/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

const roster = `{"season": 2024, "players": {
  "1": {"first_name": "Quinn", "last_name": "Back", "position": "QB", "team": "BUF", "active": true, "search_rank": 5},
  "2": {"first_name": "Rae", "last_name": "Runner", "position": "RB", "team": null, "active": true, "search_rank": 2}
}}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestGenerateCommand(t *testing.T) {
	convey.Convey("Given a roster file and a projection server", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/2024" {
				_, _ = w.Write([]byte(`{}`))
				return
			}
			_, _ = w.Write([]byte(`[{"player_id": "1", "stats": {"pts_ppr": 310.44, "adp_ppr": 1.5}}]`))
		}))
		defer srv.Close()
		t.Setenv("DRAFTRANK_PROJECTIONS_URL", srv.URL)
		t.Setenv("DRAFTRANK_FETCH_RETRY_DELAY_MS", "0")
		t.Setenv("DRAFTRANK_FETCH_MIN_INTERVAL_MS", "0")

		dir := t.TempDir()
		rosterPath := filepath.Join(dir, "players.json")
		outputPath := filepath.Join(dir, "rankings.json")
		convey.So(os.WriteFile(rosterPath, []byte(roster), 0o600), convey.ShouldBeNil)

		convey.Convey("When the command runs", func() {
			out, err := execute(t, "--roster", rosterPath, "--output", outputPath, "--log-level", "error", "--top", "2")

			convey.Convey("Then it should fall back to the previous season and print a summary", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Used projections from season 2023.")
				convey.So(out, convey.ShouldContainSubstring, "Generated rankings for 2 players (1 estimated).")
				convey.So(out, convey.ShouldContainSubstring, "Saved to "+outputPath)
				convey.So(out, convey.ShouldContainSubstring, "Quinn Back")
			})

			convey.Convey("And the artifact should be written", func() {
				raw, err := os.ReadFile(outputPath)
				convey.So(err, convey.ShouldBeNil)
				var board []types.Entry
				convey.So(json.Unmarshal(raw, &board), convey.ShouldBeNil)
				convey.So(len(board), convey.ShouldEqual, 2)
				convey.So(board[0].PlayerID, convey.ShouldEqual, "1")
				convey.So(board[0].ProjectedPoints, convey.ShouldEqual, 310.4)
			})
		})

		convey.Convey("When the roster file is missing", func() {
			_, err := execute(t, "--roster", filepath.Join(dir, "nope.json"), "--output", outputPath, "--log-level", "error")

			convey.Convey("Then the command should fail without an artifact", func() {
				convey.So(err, convey.ShouldNotBeNil)
				_, statErr := os.Stat(outputPath)
				convey.So(os.IsNotExist(statErr), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a flag value is invalid", func() {
			_, err := execute(t, "--roster", rosterPath, "--season", "next")

			convey.Convey("Then validation should reject it", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
