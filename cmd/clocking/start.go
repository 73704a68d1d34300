package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var startNoWait bool

var startCmd = &cobra.Command{
	Use:   "start [title]",
	Short: "Start clocking",
	Long: `Start clocking an entry. Without a title argument, choose
interactively from recent titles.

Unless --no-wait is specified, start waits for Ctrl-D; all input before
Ctrl-D is saved as notes and the entry is finished.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

func init() {
	startCmd.Flags().BoolVarP(&startNoWait, "no-wait", "n", false,
		"do not wait for notes input, exit with the entry unfinished")
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	title := ""
	if len(args) == 1 {
		title = args[0]
	}
	if title == "" {
		recent, err := store.RecentTitles(ctx, 5)
		if err != nil {
			return err
		}
		title, err = readTitle(recent)
		if err != nil {
			return err
		}
	}

	id, err := store.StartTitled(ctx, title)
	if err != nil {
		return err
	}
	fmt.Println("(Started)")

	if startNoWait {
		return nil
	}
	fmt.Println("(Ctrl-D to finish clocking)")
	notes := readToEnd(os.Stdin)
	if _, err := store.FinishExactNow(ctx, id, notes); err != nil {
		return err
	}
	fmt.Println("(Finished)")
	return nil
}

// readTitle picks a title interactively: from the recent list when there is
// one, otherwise from a direct prompt.
func readTitle(recent []string) (string, error) {
	reader := bufio.NewReader(os.Stdin)

	if len(recent) == 0 {
		fmt.Print("Input Title: ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		title := strings.TrimSpace(line)
		if title == "" {
			return "", errors.New("title cannot be empty")
		}
		return title, nil
	}

	for i, t := range recent {
		fmt.Printf("%d: %s\n", i+1, t)
	}
	fmt.Print("Choose by index (default 1): ")
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	input := strings.TrimSpace(line)
	if input == "" {
		return recent[0], nil
	}
	i, err := strconv.Atoi(input)
	if err != nil {
		return "", fmt.Errorf("invalid input: %s", input)
	}
	if i < 1 || i > len(recent) {
		return "", fmt.Errorf("invalid index: %d", i)
	}
	return recent[i-1], nil
}

func readToEnd(r io.Reader) string {
	data, _ := io.ReadAll(r)
	return string(data)
}
