package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-spider/internal/links"
)

var refsCmd = &cobra.Command{
	Use:   "refs",
	Short: "Print the community references found in stdin",
	RunE: func(cmd *cobra.Command, _ []string) error {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		seen := make(map[string]struct{})
		for scanner.Scan() {
			for _, name := range links.Extract(scanner.Text()) {
				if _, ok := seen[name]; ok {
					continue
				}
				seen[name] = struct{}{}
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		}
		return scanner.Err()
	},
}
