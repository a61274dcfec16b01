//go:build !windows

package main

// The service pipe only exists on windows.

func ipcInitFromEnv() {}

func ipcSendf(string, ...any) {}

func ipcClose() {}
