package interp

import "github.com/davecgh/go-spew/spew"

// dumpConfig renders continuation frames without descending into the
// Env chains hanging off SetQ/RestoreEnv frames: a live environment
// reaches all the way back to the global frame, and a full spew dump of
// it is noise, not diagnostic.
var dumpConfig = &spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
	MaxDepth:                3,
}

// DumpFrames renders the continuation snapshot captured at Attach time
// with github.com/davecgh/go-spew, for the -dump-k diagnostic flag. It
// returns the empty string if no snapshot was captured (KindUserError).
func (e *SchemeError) DumpFrames() string {
	if len(e.frames) == 0 {
		return ""
	}
	return dumpConfig.Sdump(e.frames)
}
