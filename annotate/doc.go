// Package annotate lays out render fragment trees as indented text.
//
// A Formatter walks a *render.Fragment and writes one line per node. Every
// segment passes through a Styler together with its semantic tag, so the
// same tree can be written as plain text (Plain) or coloured for a
// terminal (TermStyler). Styling never changes structure: the plain and
// coloured outputs have the same lines once escape sequences are removed.
//
// Layout:
//
//	<map[string]interface {}>:{
//	    name     => <string>:"probe"
//	    ports    => <[]int>:[
//	        <int>:80
//	    ]
//	}
//
// Key and member names are padded to the column width before " => ".
// Names longer than the column are written as is. Empty containers close
// on the same line, e.g. <[]int>:[].
package annotate
