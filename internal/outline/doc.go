// Package outline implements the auto-numbering outline editor: a line
// store with a single cursor and a key-event state machine that rewrites
// numeric ("1.") and letter ("a.") list markers on Enter, Tab, Shift+Tab and
// Backspace.
//
// A line such as "    b. buy milk" is parsed on demand into its indent (4),
// token ("b") and content ("buy milk"); the text itself is the only state.
package outline
