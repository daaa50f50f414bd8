package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	v1 "github.com/kubev2v/parallel-queue/api/v1"
)

func NewStatusCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the queues of a running pq service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			list, err := fetchQueues(ctx, addr)
			if err != nil {
				return err
			}
			printQueues(cmd.OutOrStdout(), list)
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "http://localhost:8000", "Base URL of the pq service")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Request timeout")

	return cmd
}

func fetchQueues(ctx context.Context, addr string) (v1.QueueList, error) {
	var list v1.QueueList

	url := strings.TrimSuffix(addr, "/") + "/api/v1/queues"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return list, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return list, fmt.Errorf("failed to reach %s: %w", addr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return list, fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return list, fmt.Errorf("failed to decode queue list: %w", err)
	}
	return list, nil
}

func printQueues(w io.Writer, list v1.QueueList) {
	if len(list.Queues) == 0 {
		fmt.Fprintln(w, color.YellowString("no queues"))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTATE\tWAITING\tIDLE\tEXECUTED\tREPEATED\tREJECTED\tPANICS")
	for _, q := range list.Queues {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%d (%dms)\t%d\t%d\t%d\t%d\n",
			q.Name,
			stateColor(q.State).Sprint(q.State),
			q.Waiting, q.Capacity,
			q.IdleCount, q.IdleForMs,
			q.Stats.Executed,
			q.Stats.Repeated,
			q.Stats.Rejected,
			q.Stats.Panics,
		)
	}
	_ = tw.Flush()
}

func stateColor(s v1.QueueStatusState) *color.Color {
	switch s {
	case v1.QueueStatusStateDraining:
		return color.New(color.FgGreen)
	case v1.QueueStatusStateIdling:
		return color.New(color.FgCyan)
	case v1.QueueStatusStateSuspended:
		return color.New(color.FgBlue)
	case v1.QueueStatusStateClosed:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}
