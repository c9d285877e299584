// Copyright 2024 The zb Authors
// SPDX-License-Identifier: MIT

package main

import "lua.fmt.dev/pkg/internal/luafmtcli"

func main() {
	luafmtcli.Main()
}
