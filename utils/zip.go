package utils

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
)

// PackEpub zips dir into dir+".epub" with the mimetype entry stored first.
func PackEpub(dir string) (string, error) {
	savePath := dir + ".epub"
	zipFile, err := os.Create(savePath)
	if err != nil {
		return "", err
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)

	err = AddStringToZip(zipWriter, "mimetype", "application/epub+zip", zip.Store)
	if err != nil {
		return "", err
	}

	err = AddDirContentToZip(zipWriter, dir, zip.Deflate)
	if err != nil {
		return "", err
	}

	if err := zipWriter.Close(); err != nil {
		return "", err
	}
	return savePath, nil
}

func AddStringToZip(zipWriter *zip.Writer, relPath, content string, method uint16) error {
	header := &zip.FileHeader{
		Name:   relPath,
		Method: method,
	}
	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = writer.Write([]byte(content))
	return err
}

// AddDirContentToZip adds every file below dirPath, skipping a top-level
// mimetype file.
func AddDirContentToZip(zipWriter *zip.Writer, dirPath string, method uint16) error {
	return filepath.Walk(dirPath, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(dirPath, filePath)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "mimetype" {
			return nil
		}

		file, err := os.Open(filePath)
		if err != nil {
			return err
		}
		defer file.Close()

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = relPath
		header.Method = method

		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return err
		}

		_, err = io.Copy(writer, file)
		return err
	})
}
