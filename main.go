package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/Desperationis/penguin/app"
	"github.com/Desperationis/penguin/pkg/logger"
	"github.com/Desperationis/penguin/service"
	"github.com/spf13/cobra"
)

var (
	configName string
	configPath string
	procRoot   string
	cgroupRoot string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "penguin",
		Short: "Container process introspection from proc and cgroup pseudo-filesystems",
		Long: "penguin resolves the host-visible processes of a running container " +
			"using only kernel-exposed pseudo-filesystem data: PID-namespace " +
			"comparison against a reference process, or cgroup v2 membership " +
			"keyed by a container identifier.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&procRoot, "proc-root", "", "proc filesystem root (default /proc)")
	rootCmd.PersistentFlags().StringVar(&cgroupRoot, "cgroup-root", "", "cgroup v2 mount root (default /sys/fs/cgroup)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the introspection REST server",
		RunE: func(cmd *cobra.Command, args []string) error {
			restApp, err := app.NewRestApp(configName, configPath)
			if err != nil {
				return err
			}
			restApp.Run()
			return nil
		},
	}
	serveCmd.Flags().StringVar(&configName, "config-name", "", "config file name without extension (default penguin)")
	serveCmd.Flags().StringVar(&configPath, "config-path", "", "directory containing the config file")

	psCmd := &cobra.Command{
		Use:   "ps <host-pid>",
		Short: "List processes sharing the PID namespace of a reference host PID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refPID, err := strconv.Atoi(args[0])
			if err != nil || refPID <= 0 {
				return fmt.Errorf("reference PID must be a positive integer, got %q", args[0])
			}
			procs, err := newProbe().ListNamespaceProcesses(cmd.Context(), refPID)
			if err != nil {
				return err
			}
			return printJSON(procs)
		},
	}

	cgroupCmd := &cobra.Command{
		Use:   "cgroup <container-id>",
		Short: "Resolve a container's cgroup v2 path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := newProbe().ResolveContainerCgroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	pidsCmd := &cobra.Command{
		Use:   "pids <container-id>",
		Short: "List every host PID belonging to a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pids, err := newProbe().CollectContainerPIDs(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(pids)
		},
	}

	initCmd := &cobra.Command{
		Use:   "init <container-id>",
		Short: "Find the host PID of a container's init process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			init, err := newProbe().FindContainerInit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !init.Found {
				fmt.Println("no live init process")
				return nil
			}
			fmt.Println(init.HostPID)
			return nil
		},
	}

	rootCmd.AddCommand(serveCmd, psCmd, cgroupCmd, pidsCmd, initCmd)

	log := logger.InitLogger()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newProbe() *service.Service {
	return service.NewProbe(procRoot, cgroupRoot)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
