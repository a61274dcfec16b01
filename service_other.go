//go:build !windows

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// addServiceCommand does nothing: services are a windows feature.
func addServiceCommand(*cobra.Command, *viper.Viper) {}
