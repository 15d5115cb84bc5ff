//go:build ignore

// Command generate writes the sample inputs used in the README examples:
//
//	go run testdata/generate.go
package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/parquet-go/parquet-go"
)

type Employee struct {
	ID     int64   `parquet:"id"`
	Name   string  `parquet:"name"`
	Dept   string  `parquet:"dept"`
	Age    int32   `parquet:"age"`
	Active bool    `parquet:"active"`
	Salary float64 `parquet:"salary"`
}

const employeesCSV = `id,name,dept,age,active,salary
1,alice,eng,30,true,95.5
2,bob,eng,25,false,82.3
3,charlie,ops,35,true,88.7
4,diana,sales,28,true,91.2
5,eve,ops,42,false,
`

const deptsCSV = `dept,floor,head
eng,3,"Smith, J."
ops,1,"O""Neil"
legal,2,
`

func main() {
	dir := "testdata"

	employees := []Employee{
		{ID: 1, Name: "alice", Dept: "eng", Age: 30, Active: true, Salary: 95.5},
		{ID: 2, Name: "bob", Dept: "eng", Age: 25, Active: false, Salary: 82.3},
		{ID: 3, Name: "charlie", Dept: "ops", Age: 35, Active: true, Salary: 88.7},
		{ID: 4, Name: "diana", Dept: "sales", Age: 28, Active: true, Salary: 91.2},
		{ID: 5, Name: "eve", Dept: "ops", Age: 42, Active: false, Salary: 76.8},
	}

	writeFile(filepath.Join(dir, "employees.csv"), []byte(employeesCSV))
	writeFile(filepath.Join(dir, "depts.csv"), []byte(deptsCSV))
	writeGzip(filepath.Join(dir, "employees.csv.gz"), []byte(employeesCSV))
	writeParquet(filepath.Join(dir, "employees.parquet"), employees)

	log.Printf("Generated sample inputs in %s", dir)
}

func writeFile(path string, data []byte) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatal(err)
	}
}

func writeGzip(path string, data []byte) {
	file, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	if _, err := zw.Write(data); err != nil {
		log.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		log.Fatal(err)
	}
}

func writeParquet(path string, rows []Employee) {
	file, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Employee](file)
	if _, err := writer.Write(rows); err != nil {
		log.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		log.Fatal(err)
	}
}
