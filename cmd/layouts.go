package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"keymon/internal/compositor"
	"keymon/internal/xkb"
)

var (
	layoutsFollow bool

	layoutsCmd = &cobra.Command{
		Use:   "layouts",
		Short: "Show the compositor's keyboard layouts",
		RunE:  runLayouts,
	}
)

func init() {
	layoutsCmd.Flags().BoolVarP(&layoutsFollow, "follow", "f", false, "keep printing layout changes")
}

func runLayouts(cmd *cobra.Command, args []string) error {
	manager := compositor.NewLayoutManager()
	defer manager.Close()

	fmt.Printf("Compositor: %s\n", manager.Compositor())

	if !manager.SupportsLayoutQuery() {
		fmt.Println("Layout queries are not supported on this compositor")
		return nil
	}

	if err := manager.Init(); err != nil {
		return fmt.Errorf("failed to query layouts: %w", err)
	}

	printLayouts(manager.Layouts())

	if !layoutsFollow {
		return nil
	}

	manager.StartListener(func(event compositor.LayoutEvent) {
		switch e := event.(type) {
		case compositor.LayoutSwitched:
			id := xkb.ResolveLayout(e.Name)
			fmt.Printf("Switched to %s (%s)\n", e.Name, id.Layout)
		case compositor.LayoutsChanged:
			printLayouts(e.Layouts)
		}
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

func printLayouts(layouts compositor.KeyboardLayouts) {
	if layouts.IsEmpty() {
		fmt.Println("No keyboard layouts reported")
		return
	}
	for i, name := range layouts.Names {
		marker := " "
		if i == layouts.CurrentIdx {
			marker = "*"
		}
		fmt.Printf("%s %d: %s\n", marker, i, name)
	}
}
