// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LookupBoolEnv reads key as a bool. ok is false when key is unset; a set
// but blank value counts as unset.
func LookupBoolEnv(key string) (value bool, ok bool, err error) {
	raw, set := os.LookupEnv(key)
	raw = strings.TrimSpace(raw)
	if !set || raw == "" {
		return false, false, nil
	}
	value, err = strconv.ParseBool(raw)
	if err != nil {
		return false, true, fmt.Errorf("invalid value %q for %s, expected true or false", raw, key)
	}
	return value, true, nil
}
