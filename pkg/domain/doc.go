/*
Package domain contains the core models of the analysis tools.

It defines what a traversal driver reports (VisitedObject), what the
classifier builds from it (Tree, TrialNode, ChannelNode), and the panel state
that front-ends persist and stream (Session, PlotOptions). The package is kept
free of I/O and persistence.

# Key Entities

  - VisitedObject: one (path, kind) pair supplied by a traversal driver.
  - Tree: the two-level trial -> channel view of an open file.
  - Session: the persisted panel state (file, tree, selection, plot toggles).
  - UpdateFlag: host lifecycle events delivered to the plugin model.
*/
package domain
