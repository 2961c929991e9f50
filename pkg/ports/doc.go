/*
Package ports defines the driven ports (interfaces) of the analysis tools.

These interfaces decouple the classifier and the panel from concrete
implementations, so the same core runs against the HDF5 reader, a scripted
traversal in tests, and several session backends.

# Key Interfaces

  - Traverser: walks a file and reports each (path, kind) pair.
  - ChannelReader: reads the samples of one channel.
  - SessionStore: persists and loads panel sessions.
  - DistributedLocker: distributed locking for concurrent session access.
  - Panel: the driving surface that HTTP and MCP adapters call.
*/
package ports
