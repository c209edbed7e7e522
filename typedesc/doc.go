// Package typedesc describes the shape of request and response data for
// documentation purposes.
//
// A Type is a closed variant over primitives, objects with ordered
// properties, one-dimensional collections (list, vector, set), maps and
// enums, plus an opaque variant for framework-specific classes that can
// only be documented through a named interpretation.
//
// Types are declared eagerly, before any document is generated:
//
//	task := typedesc.NewObject("Task").
//	    Field("description", typedesc.String).
//	    Field("done", typedesc.Bool)
//
//	user := typedesc.NewObject("User")
//	user.AddProperty(&typedesc.Property{Name: "id", Type: typedesc.Int32, Required: true})
//	user.Field("tasks", typedesc.ListOf(task))
//	user.Field("referrer", user) // self reference
//
// Type expressions ("list<User>", "map<string,Task>") can be parsed with
// Parse, resolving named types through a lookup function.
package typedesc
