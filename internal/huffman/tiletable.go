package huffman

import "github.com/infinite-sweeper/sweeperd/internal/tile"

// TileCode is the fixed, process-global Huffman code over the 13-symbol
// PublicTile alphabet, built once at package init from the weight table
// spec.md documents. Every encoder/decoder in this module shares this one
// table so that wire output is bit-exact across the process.
var TileCode = Build([]Weight[tile.PublicTile]{
	{tile.Hidden, 40},
	{tile.Adjacent0, 25},
	{tile.Adjacent1, 20},
	{tile.Newline, 15},
	{tile.Adjacent2, 12},
	{tile.Flag, 10},
	{tile.Exploded, 5},
	{tile.Adjacent3, 3},
	{tile.Adjacent4, 0.5},
	{tile.Adjacent5, 0.1},
	{tile.Adjacent6, 0.04},
	{tile.Adjacent7, 0.001},
	{tile.Adjacent8, 0.0001},
})
