package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RegisterModules registers all game.* Lua tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: The game global is defined in L with log.* and reforge.*
// submodules.
func (m *Manager) RegisterModules(L *lua.LState) {
	game := L.NewTable()
	L.SetGlobal("game", game)

	logTbl := L.NewTable()
	L.SetField(game, "log", logTbl)
	L.SetField(logTbl, "debug", L.NewFunction(m.luaLog(zapcore.DebugLevel)))
	L.SetField(logTbl, "info", L.NewFunction(m.luaLog(zapcore.InfoLevel)))
	L.SetField(logTbl, "warn", L.NewFunction(m.luaLog(zapcore.WarnLevel)))
	L.SetField(logTbl, "error", L.NewFunction(m.luaLog(zapcore.ErrorLevel)))

	rf := L.NewTable()
	L.SetField(game, "reforge", rf)
	L.SetField(rf, "is_reforgeable", L.NewFunction(m.luaIsReforgeable))
	L.SetField(rf, "preview", L.NewFunction(m.luaPreview))
	L.SetField(rf, "reforge", L.NewFunction(m.luaReforge))
	L.SetField(rf, "remove", L.NewFunction(m.luaRemoveReforge))
	L.SetField(rf, "percentage", L.NewFunction(m.luaPercentage))
	L.SetField(rf, "cost", L.NewFunction(m.luaCost))
}

func (m *Manager) luaLog(level zapcore.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		if ce := m.logger.Check(level, msg); ce != nil {
			ce.Write(zap.String("source", "lua"))
		}
		return 0
	}
}

// game.reforge.is_reforgeable(owner_id, item_id) -> bool
func (m *Manager) luaIsReforgeable(L *lua.LState) int {
	ownerID := L.CheckInt64(1)
	itemID := L.CheckString(2)
	if m.IsReforgeable == nil {
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LBool(m.IsReforgeable(ownerID, itemID)))
	return 1
}

// game.reforge.preview(item_id, attribute) -> moved, remaining | nil, err
func (m *Manager) luaPreview(L *lua.LState) int {
	itemID := L.CheckString(1)
	attribute := L.CheckString(2)
	if m.Preview == nil {
		L.Push(lua.LNil)
		L.Push(lua.LString("preview unavailable"))
		return 2
	}
	moved, remaining, err := m.Preview(itemID, attribute)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LNumber(moved))
	L.Push(lua.LNumber(remaining))
	return 2
}

// game.reforge.reforge(owner_id, item_id, from, to) -> true | false, err
func (m *Manager) luaReforge(L *lua.LState) int {
	ownerID := L.CheckInt64(1)
	itemID := L.CheckString(2)
	from := L.CheckString(3)
	to := L.CheckString(4)
	if m.Reforge == nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString("reforge unavailable"))
		return 2
	}
	if err := m.Reforge(ownerID, itemID, from, to); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// game.reforge.remove(item_id) -> true | false, err
func (m *Manager) luaRemoveReforge(L *lua.LState) int {
	itemID := L.CheckString(1)
	if m.RemoveReforge == nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString("remove unavailable"))
		return 2
	}
	if err := m.RemoveReforge(itemID); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// game.reforge.percentage() -> number
func (m *Manager) luaPercentage(L *lua.LState) int {
	if m.Percentage == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(m.Percentage()))
	return 1
}

// game.reforge.cost() -> number
func (m *Manager) luaCost(L *lua.LState) int {
	if m.Cost == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(m.Cost()))
	return 1
}
