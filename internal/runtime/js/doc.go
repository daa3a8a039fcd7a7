// Package js runs content configs written in TypeScript or JavaScript.
//
// Sources are transpiled with esbuild (TypeScript and ES modules become
// CommonJS) and executed by goja. Each [Runtime.Open] creates a fresh VM
// whose require resolves only the native modules given to the runtime;
// nothing is read from disk or node_modules.
//
// The content module provides "quill:content":
//
//	import { defineCollection, z } from "quill:content";
//
//	export const collections = {
//	  blog: defineCollection({
//	    schema: z.object({
//	      title: z.string().min(1),
//	      draft: z.boolean().default(false),
//	      published: z.coerce.date(),
//	    }),
//	    slug: ({ collection, defaultSlug }) => `${collection}/${defaultSlug}`,
//	  }),
//	};
//
// A config may also put collections on its default export.
//
// JavaScript functions in the exports are returned as schema.Function
// values. They keep the VM that defined them alive after the environment is
// closed, and calls through them are serialized. A function returning a
// promise is resolved before its value is handed back.
package js
