package main

import (
	"fmt"
	"os"

	"github.com/matrixorigin/mosearch/pkg/config"
)

func main() {
	argCnt := len(os.Args)
	if argCnt > 2 {
		fmt.Printf("usage: %s [outputFile]\n", os.Args[0])
		return
	}

	p := &config.Parameters{}
	p.SetDefaultValues()

	out := os.Stdout
	if argCnt == 2 {
		f, err := os.Create(os.Args[1])
		if err != nil {
			fmt.Printf("create %s failed. error:%v \n", os.Args[1], err)
			os.Exit(-1)
		}
		defer f.Close()
		out = f
	}

	if err := p.Encode(out); err != nil {
		fmt.Printf("generate configuration failed. error:%v \n", err)
		os.Exit(-1)
	}
}
