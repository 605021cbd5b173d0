package service

import (
	"crypto/rand"
	"math/big"
)

// aliasWords 随机地址使用的词表。
// 全部为短小常见的英文单词，组合后便于口头转述。
var aliasWords = []string{
	"acorn", "amber", "apple", "aspen", "autumn", "basil", "beach", "berry",
	"birch", "breeze", "brook", "candle", "canyon", "cedar", "cherry", "cliff",
	"clover", "cloud", "coral", "creek", "crystal", "daisy", "dawn", "delta",
	"desert", "drift", "dune", "ember", "fable", "falcon", "fern", "field",
	"flint", "forest", "frost", "garden", "ginger", "glade", "grove", "harbor",
	"hazel", "heather", "hill", "holly", "ivory", "ivy", "jade", "jasper",
	"juniper", "lagoon", "lake", "laurel", "lily", "linden", "lotus", "maple",
	"marble", "meadow", "mist", "moss", "north", "oasis", "ocean", "olive",
	"opal", "orchid", "otter", "pebble", "pine", "plum", "pond", "poppy",
	"prairie", "quartz", "quill", "rain", "reef", "ridge", "river", "robin",
	"rose", "sage", "sand", "shade", "shell", "shore", "sierra", "silver",
	"sky", "slate", "snow", "spring", "spruce", "star", "stone", "storm",
	"summer", "sunny", "thistle", "tide", "timber", "tulip", "valley", "vine",
	"violet", "willow", "winter", "wren",
}

// RandomAlias 生成 "word.word" 形式的随机地址本地部分。
func RandomAlias() (string, error) {
	first, err := randomWord()
	if err != nil {
		return "", err
	}
	second, err := randomWord()
	if err != nil {
		return "", err
	}
	return first + "." + second, nil
}

func randomWord() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(aliasWords))))
	if err != nil {
		return "", err
	}
	return aliasWords[n.Int64()], nil
}
