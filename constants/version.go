package constants

// Version of the pgpseal module.
const Version = "1.0.0"
