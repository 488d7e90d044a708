package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"book_music/internal/session"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracks <file>",
		Short: "Show the per-chapter track selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.setup(); err != nil {
				return err
			}
			b, project, err := ctx.openBook(args[0])
			if err != nil {
				return err
			}
			loader, err := ctx.trackLoader()
			if err != nil {
				return err
			}

			s := ctx.newSession(project.DBPath, loader)
			s.OnPoolStatusUpdated(func(ev session.PoolStatusUpdated) {
				if ev.TrackCount == 0 {
					fmt.Println("No tracks available; configure a Freesound API key to build the pool.")
				}
			})
			if err := s.Open(cmd.Context(), b); err != nil {
				return err
			}
			mappings := s.Mappings()

			if ctx.jsonOutput() {
				raw, err := json.MarshalIndent(mappings, "", "  ")
				if err != nil {
					return fmt.Errorf("encode mappings: %w", err)
				}
				fmt.Println(string(raw))
				return nil
			}

			rows := make([][]string, 0, len(mappings))
			for i, m := range mappings {
				first := ""
				if len(m.Tracks) > 0 {
					first = m.Tracks[0].TrackTitle
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					m.ChapterTitle,
					m.PrimaryMood,
					strconv.Itoa(m.TrackCount),
					first,
					m.Reasoning,
				})
			}
			fmt.Println(renderTable(
				[]string{"#", "Chapter", "Mood", "Tracks", "Lead Track", "Reasoning"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
	return cmd
}
