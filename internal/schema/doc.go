// Package schema validates and transforms decoded entry data.
//
// A [Validator] checks a value at a [Path] and returns the (possibly
// transformed) output together with any [Issue]s. Validators compose:
//
//	post := schema.Object(map[string]schema.Validator{
//		"title":   schema.String().Min(1),
//		"draft":   schema.Default(schema.Boolean(), false),
//		"tags":    schema.Optional(schema.Array(schema.String())),
//		"updated": schema.Optional(schema.CoerceDate()),
//	})
//
//	res := schema.SafeParse(ctx, post, data)
//	if !res.OK() {
//		fmt.Println(res.Issues[0].Message)
//	}
//
// An absent value is represented by [Undefined], which is distinct from nil
// (null). Objects strip unknown keys unless built [ObjectSchema.Strict] or
// [ObjectSchema.Passthrough].
//
// Validators can also be compiled from declarative descriptors such as
// "string?" or {type: array, items: string}; see [FromDescriptor].
package schema
