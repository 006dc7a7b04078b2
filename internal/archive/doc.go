// Package archive stores named secrets in memory and serializes them as a
// single zip file, the plaintext payload of a coffer container.
//
// Names may contain "/" to group entries into folders ("seed/ravencoin").
// A name without an extension is stored with ".txt" appended and listed
// without it. Deleting a folder name removes every entry inside it.
package archive
