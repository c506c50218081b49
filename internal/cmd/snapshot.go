package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/chessbridge/internal/board"
	"github.com/Iron-Ham/chessbridge/internal/errors"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [square...]",
	Short: "Print a snapshot record",
	Long: `Print the 64-character record the board would send with the given
squares occupied. Repeat the record with -n to get past the debouncer, and
chain commands to write captures for 'chessbridge replay'.

Examples:
  # A board set up for a new game, six times
  chessbridge snapshot --start -n 6

  # The same board after 1. e4
  chessbridge snapshot --start --remove e2 e4 -n 6

  # Only the two kings, with the packed row bytes
  chessbridge snapshot e1 e8 --hex`,
	RunE: runSnapshot,
}

var (
	snapshotStart  bool
	snapshotRemove []string
	snapshotRepeat int
	snapshotHex    bool
)

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().BoolVar(&snapshotStart, "start", false, "Start from the initial position (ranks 1, 2, 7 and 8)")
	snapshotCmd.Flags().StringSliceVar(&snapshotRemove, "remove", nil, "Squares to clear (comma-separated or repeated)")
	snapshotCmd.Flags().IntVarP(&snapshotRepeat, "repeat", "n", 1, "Number of times to print the record")
	snapshotCmd.Flags().BoolVar(&snapshotHex, "hex", false, "Also print the packed row bytes, rank 8 first")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	if snapshotRepeat < 1 {
		return errors.New("--repeat must be at least 1")
	}
	snap, err := buildSnapshot(snapshotStart, args, snapshotRemove)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	record := snap.String()
	for i := 0; i < snapshotRepeat; i++ {
		fmt.Fprintln(out, record)
	}
	if snapshotHex {
		fmt.Fprintln(cmd.ErrOrStderr(), packedHex(snap))
	}
	return nil
}

// buildSnapshot applies add then remove to the empty board or the initial
// position.
func buildSnapshot(start bool, add, remove []string) (board.Snapshot, error) {
	snap := board.Empty
	if start {
		snap = board.StartingPosition()
	}
	for _, name := range add {
		sq, err := board.ParseSquare(name)
		if err != nil {
			return board.Empty, err
		}
		snap = snap.Set(sq, true)
	}
	for _, name := range remove {
		sq, err := board.ParseSquare(name)
		if err != nil {
			return board.Empty, err
		}
		snap = snap.Set(sq, false)
	}
	return snap, nil
}

func packedHex(snap board.Snapshot) string {
	rows := snap.Pack()
	parts := make([]string, len(rows))
	for i, b := range rows {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, " ")
}
