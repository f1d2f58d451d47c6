package fsys

import "log"

// Debug gates DPrintf, exactly as the teacher's util.go does (const Debug =
// 0; DPrintf no-ops unless level <= Debug). Raise it locally when chasing a
// bug; it ships at 0.
const Debug = 0

// DPrintf logs format/a through the standard logger when level <= Debug.
func DPrintf(level int, format string, a ...interface{}) {
	if level <= Debug {
		log.Printf(format, a...)
	}
}
