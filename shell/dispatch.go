// Package shell is the interactive line-oriented command shell: the
// collaborator layer spec §1 calls out as "interactive shell, command parser
// and dispatch table ... contain no filesystem logic". Every handler below
// does nothing but validate arity, call one fsys.Engine method, and render
// the result or error, grounded in the original source's Shell.cpp and
// helpers/FilesystemInterface.{h,cpp}.
package shell

import (
	"fmt"
	"os"
	"strings"

	"github.com/laadim/blockfs/common"
	"github.com/laadim/blockfs/fsys"
	"github.com/laadim/blockfs/sizeparser"
)

// Dispatcher owns the live engine and the command table, and turns one line
// of input into one line of output.
type Dispatcher struct {
	engine   *fsys.Engine
	commands map[string]command
}

type command struct {
	minArgs int
	maxArgs int
	usage   string
	run     func(d *Dispatcher, args []string) string
}

// NewDispatcher builds the command table over engine, matching the table in
// spec §6: format, cp, mv, rm, mkdir, rmdir, ls, cat, cd, pwd, info, statfs,
// incp, outcp, load, ln, exit.
func NewDispatcher(engine *fsys.Engine) *Dispatcher {
	d := &Dispatcher{engine: engine}
	d.commands = map[string]command{
		"format": {1, 1, "usage: format <size>", cmdFormat},
		"cp":     {2, 2, "usage: cp <src> <dst>", cmdCopy},
		"mv":     {2, 2, "usage: mv <src> <dst>", cmdMove},
		"rm":     {1, 1, "usage: rm <path>", cmdRemove},
		"mkdir":  {1, 1, "usage: mkdir <path>", cmdMkdir},
		"rmdir":  {1, 1, "usage: rmdir <path>", cmdRmdir},
		"ls":     {0, 1, "usage: ls [path]", cmdList},
		"cat":    {1, 1, "usage: cat <path>", cmdCat},
		"cd":     {1, 1, "usage: cd <path>", cmdChdir},
		"pwd":    {0, 0, "usage: pwd", cmdPwd},
		"info":   {1, 1, "usage: info <path>", cmdInfo},
		"statfs": {0, 0, "usage: statfs", cmdStatfs},
		"incp":   {2, 2, "usage: incp <host-path> <fs-path>", cmdIncp},
		"outcp":  {2, 2, "usage: outcp <fs-path> <host-path>", cmdOutcp},
		"load":   {1, 1, "usage: load <script-file>", cmdLoad},
		"ln":     {2, 2, "usage: ln <target> <link>", cmdLink},
		"exit":   {0, 0, "usage: exit", cmdExit},
	}
	return d
}

// Dispatch parses one line into a command and arguments and runs it. A
// usage mismatch (wrong argument count) returns the usage string, not an
// error, per spec §6.
func (d *Dispatcher) Dispatch(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	name, args := fields[0], fields[1:]
	cmd, ok := d.commands[name]
	if !ok {
		return "Unknown command"
	}
	if len(args) < cmd.minArgs || len(args) > cmd.maxArgs {
		return cmd.usage
	}
	return cmd.run(d, args)
}

// renderErr converts an engine error into the CLI's "Error: " + message
// convention, per spec §7.
func renderErr(err error) string {
	return "Error: " + err.Error()
}

func cmdFormat(d *Dispatcher, args []string) string {
	bytes, err := sizeparser.Parse(args[0])
	if err != nil {
		return renderErr(err)
	}
	if bytes > uint64(^uint32(0)) {
		return renderErr(common.Newf(common.InvalidFilesystemSize, "format: %d bytes exceeds the 32-bit image size limit", bytes))
	}
	if err := d.engine.Format(uint32(bytes)); err != nil {
		return renderErr(err)
	}
	return fmt.Sprintf("Formatted %d bytes", bytes)
}

func cmdCopy(d *Dispatcher, args []string) string {
	if err := d.engine.CopyFile(args[0], args[1]); err != nil {
		return renderErr(err)
	}
	return "OK"
}

func cmdMove(d *Dispatcher, args []string) string {
	if err := d.engine.MoveFile(args[0], args[1]); err != nil {
		return renderErr(err)
	}
	return "OK"
}

func cmdRemove(d *Dispatcher, args []string) string {
	if err := d.engine.RemoveFile(args[0]); err != nil {
		return renderErr(err)
	}
	return "OK"
}

func cmdMkdir(d *Dispatcher, args []string) string {
	if err := d.engine.CreateDirectory(args[0]); err != nil {
		return renderErr(err)
	}
	return "OK"
}

func cmdRmdir(d *Dispatcher, args []string) string {
	if err := d.engine.RemoveDirectory(args[0]); err != nil {
		return renderErr(err)
	}
	return "OK"
}

func cmdList(d *Dispatcher, args []string) string {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	entries, err := d.engine.ListDirectoryEntries(path)
	if err != nil {
		return renderErr(err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		if e.IsDir {
			names[i] = e.Name + "/"
		} else {
			names[i] = e.Name
		}
	}
	return strings.Join(names, "  ")
}

func cmdCat(d *Dispatcher, args []string) string {
	data, err := d.engine.ReadFile(args[0])
	if err != nil {
		return renderErr(err)
	}
	return string(data)
}

func cmdChdir(d *Dispatcher, args []string) string {
	if err := d.engine.ChangeDirectory(args[0]); err != nil {
		return renderErr(err)
	}
	return "OK"
}

func cmdPwd(d *Dispatcher, args []string) string {
	parts, err := d.engine.CurrentPath()
	if err != nil {
		return renderErr(err)
	}
	return "/" + strings.Join(parts, "/")
}

func cmdInfo(d *Dispatcher, args []string) string {
	info, err := d.engine.GetNodeInfo(args[0])
	if err != nil {
		return renderErr(err)
	}
	return info.FormatTable()
}

func cmdStatfs(d *Dispatcher, args []string) string {
	stats, err := d.engine.GetFilesystemStats()
	if err != nil {
		return renderErr(err)
	}
	return stats.FormatTable()
}

// cmdIncp imports a host file into the image. It and cmdOutcp are the only
// handlers that move file data between the host filesystem and the image.
func cmdIncp(d *Dispatcher, args []string) string {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return renderErr(common.Newf(common.FileDoesNotExist, "incp: %v", err))
	}
	if err := d.engine.WriteFile(args[1], data); err != nil {
		return renderErr(err)
	}
	return "OK"
}

// cmdOutcp exports an image file onto the host filesystem.
func cmdOutcp(d *Dispatcher, args []string) string {
	data, err := d.engine.ReadFile(args[0])
	if err != nil {
		return renderErr(err)
	}
	if err := os.WriteFile(args[1], data, 0644); err != nil {
		return renderErr(common.Newf(common.FileWrite, "outcp: %v", err))
	}
	return "OK"
}

func cmdLoad(d *Dispatcher, args []string) string {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return renderErr(common.Newf(common.FileDoesNotExist, "load: %v", err))
	}
	var last string
	for _, rawLine := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		last = d.Dispatch(line)
		if strings.HasPrefix(last, "Error") || last == "Unknown command" {
			return last
		}
	}
	return last
}

func cmdLink(d *Dispatcher, args []string) string {
	if err := d.engine.LinkFile(args[0], args[1]); err != nil {
		return renderErr(err)
	}
	return "OK"
}

// cmdExit returns the sentinel the Shell REPL watches for to stop reading.
func cmdExit(d *Dispatcher, args []string) string {
	return "exit"
}
