// Package instrument implements the transport session shared by the U3606
// and U2723 drivers: locating an instrument through a transport.Directory,
// the identification handshake, strictly serialized command and query
// traffic, and the IEEE-488.2 common commands.
//
// Every Session.Write and Session.Query first sends *WAI so the instrument
// finishes any pending operation before the next command executes. At most
// one operation is outstanding per session; nothing is retried and there is
// no cancellation other than the transport timeout.
package instrument
