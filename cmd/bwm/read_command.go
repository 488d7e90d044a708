package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"book_music/internal/playback"
	"book_music/internal/session"
)

// newReadCommand simulates reading a chapter page by page, forward to
// the end and back to the start, printing every track switch.
func newReadCommand(ctx *commandContext) *cobra.Command {
	var chapterFlag int
	var pagesFlag int

	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Simulate a reading session with page-based music switching",
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
			s.OnChapterMusicChanged(func(ev session.ChapterMusicChanged) {
				fmt.Printf("Chapter %d: mood %s, %d tracks queued, %d shift points\n",
					ev.ChapterIndex+1, ev.Mood, len(ev.Playlist), ev.Shifts.TotalShifts)
			})
			s.OnTrackSwitch(func(ev session.TrackSwitch) {
				label := "advance"
				if ev.Restored {
					label = "restore"
				}
				title := ev.Track.Title
				if title == "" {
					title = fmt.Sprintf("track %d", ev.ToTrack+1)
				}
				fmt.Printf("  page %d: %s %d -> %d (%s)\n", ev.Page, label, ev.FromTrack+1, ev.ToTrack+1, title)
				if ev.ShiftPoint != nil {
					fmt.Printf("    mood shift %s -> %s (score %d)\n",
						ev.ShiftPoint.FromMood, ev.ShiftPoint.ToMood, ev.ShiftPoint.ShiftScore)
				}
			})

			if err := s.Open(cmd.Context(), b); err != nil {
				return err
			}

			chapter := chapterFlag - 1
			if chapter < 0 || chapter >= len(b.Chapters) {
				return fmt.Errorf("chapter %d out of range (book has %d)", chapterFlag, len(b.Chapters))
			}
			if err := s.EnterChapter(chapter, pagesFlag); err != nil {
				return err
			}

			for page := 1; page < pagesFlag; page++ {
				if _, err := s.TurnPage(playback.PageEvent{OldPage: page, NewPage: page + 1, ChapterIndex: chapter}); err != nil {
					return err
				}
			}
			fmt.Println("Reached chapter end, paging back...")
			for page := pagesFlag; page > 1; page-- {
				if _, err := s.TurnPage(playback.PageEvent{OldPage: page, NewPage: page - 1, ChapterIndex: chapter}); err != nil {
					return err
				}
			}
			if track, ok := s.CurrentTrack(); ok {
				fmt.Printf("Back at page 1 with %q playing.\n", track.Title)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&chapterFlag, "chapter", 1, "Chapter to read (1-based)")
	cmd.Flags().IntVar(&pagesFlag, "pages", 10, "Pages to paginate the chapter into")
	return cmd
}
