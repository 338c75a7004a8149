// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"

	"github.com/bitmark-inc/deltad/fault"
)

// field names in the Lua table are given by the gluamapper tag and
// used as is
var mapper = gluamapper.Mapper{
	Option: gluamapper.Option{
		NameFunc: func(s string) string { return s },
		TagName:  "gluamapper",
	},
}

// ParseConfigurationFile - run a Lua file and copy the table it
// returns into config, fields absent from the table keep their values
func ParseConfigurationFile(fileName string, config interface{}) error {
	L := lua.NewState()
	defer L.Close()

	L.OpenLibs()
	L.SetGlobal("arg", scriptArguments(fileName))

	if err := L.DoFile(fileName); nil != err {
		return err
	}
	return mapResult(L, config)
}

// the script sees its own path as arg[0]
func scriptArguments(fileName string) *lua.LTable {
	arg := &lua.LTable{}
	arg.Insert(0, lua.LString(fileName))
	return arg
}

func mapResult(L *lua.LState, config interface{}) error {
	table, ok := L.Get(L.GetTop()).(*lua.LTable)
	if !ok {
		return fault.ConfigurationNotTable
	}
	return mapper.Map(table, config)
}
