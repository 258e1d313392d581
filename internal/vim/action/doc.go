// Package action defines the commands of the modal editing engine and the
// registry that matches typed keys to them.
//
// An Action declares the modes it applies in, its key patterns and a few
// behavioral flags that tell the execution engine how to run it: once for
// every cursor or once in total, and whether the engine or the action itself
// interprets the count. Actions never edit the buffer directly. They queue
// transformations on the recorded state, and the engine flushes the queue
// once every cursor has been processed.
//
// Key patterns are token lists. Besides literal tokens a pattern may contain
// the wildcards <character> (any non-special token), <number> (a digit),
// <alpha> (a letter) and <any> (any token).
package action
