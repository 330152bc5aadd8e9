// Package usbtmc implements transport.Directory and transport.Transport for
// instruments attached over USB Test & Measurement Class (USBTMC) bulk
// endpoints, using github.com/google/gousb.
//
// Endpoints are reported with VISA-style addresses:
//
//	USB0::0x<vendor>::0x<product>::<serial>::<interface>::INSTR
//
// Every message is framed with the 12-byte USBTMC bulk header. Commands are
// sent as DEV_DEP_MSG_OUT transfers with the EOM bit set; replies are read by
// issuing REQUEST_DEV_DEP_MSG_IN and collecting DEV_DEP_MSG_IN transfers until
// one carries EOM.
package usbtmc
