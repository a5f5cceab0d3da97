package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"tds-scene/internal/loader"
	"tds-scene/internal/tds"
)

func main() {
	tree := flag.Bool("tree", false, "Print the chunk tree")
	flag.Parse()

	failed := false
	for _, arg := range flag.Args() {
		if *tree {
			if err := printTree(arg); err != nil {
				fmt.Fprintf(os.Stderr, "Walk error %s: %v\n", arg, err)
				failed = true
				continue
			}
		}

		scene, err := loader.Default.Load(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Parse error %s: %v\n", arg, err)
			failed = true
			continue
		}
		printScene(arg, scene)
	}
	if failed {
		os.Exit(1)
	}
}

func printTree(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Printf("\n=== %s chunks ===\n", path)
	return tds.Walk(f, func(h tds.Header, depth int) error {
		fmt.Printf("%8d %s%s len=%d\n", h.Offset, strings.Repeat("  ", depth), h.Kind, h.Length)
		return nil
	})
}

func printScene(path string, s *tds.Scene) {
	st := s.Stats()
	fmt.Printf("\n=== %s (version=%d mesh=%d objects=%d materials=%d) ===\n",
		path, s.Version, s.MeshVersion, st.Objects, st.Materials)
	for _, w := range s.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}

	for i, m := range s.Materials {
		fmt.Printf("  Material[%d] %q diffuse=(%.3f,%.3f,%.3f)\n", i, m.Name, m.Diffuse[0], m.Diffuse[1], m.Diffuse[2])
	}
	for i, o := range s.Objects {
		mat := o.Material
		if mat == "" {
			mat = "-"
		}
		line := fmt.Sprintf("  Object[%d] %q: v=%d t=%d uv=%d material=%s", i, o.Name, len(o.Vertices), len(o.Triangles), len(o.UVs), mat)
		if len(o.Vertices) > 0 {
			minV, maxV := o.Vertices[0], o.Vertices[0]
			for _, v := range o.Vertices[1:] {
				for k := 0; k < 3; k++ {
					minV[k] = min(minV[k], v[k])
					maxV[k] = max(maxV[k], v[k])
				}
			}
			line += fmt.Sprintf(" min=(%.2f,%.2f,%.2f) max=(%.2f,%.2f,%.2f)",
				minV[0], minV[1], minV[2], maxV[0], maxV[1], maxV[2])
		}
		fmt.Println(line)
	}
}
