// Package collection discovers the entries of content collections on disk
// and turns them into validated, slugged entries using a loaded content
// config.
//
// A collection is a directory directly under the content directory. Every
// Markdown file below it is a content entry whose frontmatter supplies the
// entry data; every YAML or JSON file is a data entry whose whole document is
// the data. Files and directories whose names start with "_" or "." are
// ignored.
package collection
