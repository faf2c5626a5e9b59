package pfspd

// Version is the library version string, reported by the command line
// tools.
const Version = "1.0.0"
