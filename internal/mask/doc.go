// Package mask describes which layers and channels of a deep neural network
// are selected for downstream analysis.
//
// Key pieces:
//   - Mask: an ordered accumulator mapping layer names to channel selections,
//     where a nil selection means every channel.
//   - Build: constructs a mask from explicit layer/channel lists or from a
//     .dmask.csv file, enforcing the toolkit's argument contract.
//   - Load/Save and Read/Write: the .dmask.csv codec. One record per layer:
//     the layer name followed by "all" or by 1-based channel numbers.
package mask
