package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smartklingel/klingel/codes"
)

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Manage access codes",
}

func openCodes() (*codes.Store, error) {
	conf, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return codes.New(conf.General.Codes), nil
}

func listCodes(w io.Writer, store *codes.Store) {
	entries := store.List()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No codes")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%-10s %s\n", e.Code, e.Name)
	}
}

var codesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List access codes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCodes()
		if err != nil {
			return err
		}
		listCodes(os.Stdout, store)
		return nil
	},
}

var codesAddCmd = &cobra.Command{
	Use:   "add CODE NAME",
	Short: "Add or replace an access code",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCodes()
		if err != nil {
			return err
		}
		name := strings.Join(args[1:], " ")
		if err := store.Save(args[0], name); err != nil {
			return err
		}
		fmt.Println("Added code for", name)
		return nil
	},
}

var codesDelCmd = &cobra.Command{
	Use:   "del CODE",
	Short: "Delete an access code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCodes()
		if err != nil {
			return err
		}
		return store.Delete(args[0])
	},
}

func init() {
	codesCmd.AddCommand(codesListCmd, codesAddCmd, codesDelCmd)
	rootCmd.AddCommand(codesCmd)
}
