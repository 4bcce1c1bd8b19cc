// Package wsbridge mirrors remote clients' locations with routers over
// websockets.
//
// Each connection gets a session with its own router, driven on the
// goroutine serving the connection. The protocol is JSON frames:
//
//	client → server  {"type":"location","value":"/users/1"}
//	client → server  {"type":"navigate","value":"/users/2","mode":"push"}
//	server → client  {"type":"commit","value":"/users/2","mode":"push"}
//	server → client  {"type":"state","value":"/users/2","path":"/users/2","matches":["user"]}
//	server → client  {"type":"error","code":"R002","message":"..."}
//
// The first client frame must be a location frame. Commit frames are the
// router's integration writes: the client applies them to its history.
// Location frames after the first report back/forward navigation.
package wsbridge
