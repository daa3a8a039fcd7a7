// Package lua runs content configs written in Lua using gopher-lua.
//
// Each [Runtime.Open] creates a fresh sandboxed state: only the base,
// table, string and math libraries are loaded, file loading functions are
// removed, and require resolves only preloaded plugin modules. The state is
// closed with the environment.
//
// The content plugin provides the "quill:content" module:
//
//	local content = require("quill:content")
//	local z = content.z
//
//	return {
//	  collections = {
//	    blog = content.define_collection({
//	      schema = z.object({
//	        title = z.string():min(1),
//	        draft = z.boolean():default(false),
//	        published = z.coerce.date(),
//	      }),
//	      slug = function(input)
//	        return input.default_slug
//	      end,
//	    }),
//	  },
//	}
//
// Lua functions in the exported value are returned as schema.Function
// values. Each call runs on its own short-lived sandboxed state, so the
// callables stay usable after the environment is closed. Calls made through
// functions from the same import are serialized.
package lua
