// Package lua runs user Lua scripts that transform TAS documents.
//
// This package wraps the gopher-lua library to provide a sandboxed state,
// a "tas" module with a document userdata bound to package tas, and
// execution timeouts via context cancellation.
//
// # Transforms
//
// A transform script defines a global transform function. It receives a
// copy of the document and may mutate it or return a new one:
//
//	function transform(doc)
//	    doc:expand()
//	    for frame = 0, doc:total_frames() - 1, 2 do
//	        doc:toggle(frame, "J")
//	    end
//	    doc:combine()
//	end
//
// Run it from Go:
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(5 * time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	out, err := state.RunTransform(ctx, script, doc)
//
// # Module
//
//	tas.parse(text)          -> document (raises on malformed input)
//	tas.layout()             -> table {order, exclusive, valued}
//	tas.toggle_comment(text, first, last) -> string (1-indexed lines)
//
// # Document methods
//
//	doc:render()             -> string
//	doc:expand()
//	doc:combine()            -> bool
//	doc:total_frames()       -> number
//	doc:len()                -> number
//	doc:line(i)              -> table or nil (1-indexed)
//	doc:cursor(frame)        -> table or nil (0-indexed frame)
//	doc:held(frame, key)     -> bool
//	doc:keys()               -> list of action keys in order of first use
//	doc:toggle(frame, key)
//	doc:insert(i, text)      inserts the parsed lines of text before line i
//	doc:remove(i)
//
// # Sandbox
//
// Only the base, table, string and math libraries are opened. dofile,
// loadfile, load, loadstring and require are removed, and print writes to
// the state's logger.
package lua
