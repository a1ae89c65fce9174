package division

// DefaultHierarchy is a minimal built-in snapshot of the administrative
// division table, keyed by GB/T 2260 style codes. Deployments that need the
// full hierarchy load it into the static resolver at startup; this seed
// keeps local development and tests working without external data.
var DefaultHierarchy = map[string]int{
	// Provinces and municipalities.
	"110000": 1, // Beijing
	"310000": 1, // Shanghai
	"440000": 1, // Guangdong
	"330000": 1, // Zhejiang

	// Cities.
	"110100": 2, // Beijing city proper
	"310100": 2, // Shanghai city proper
	"440300": 2, // Shenzhen
	"330100": 2, // Hangzhou

	// Districts.
	"110105": 3, // Chaoyang
	"310115": 3, // Pudong
	"440305": 3, // Nanshan
	"330106": 3, // Xihu
}
