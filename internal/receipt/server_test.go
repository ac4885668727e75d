package receipt

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/nadzmil/resitku/internal/extraction"
	"github.com/nadzmil/resitku/internal/scanning"
)

var _ = Describe("Server", func() {
	var (
		db          *mockDB
		storage     *mockStorage
		processor   *mockProcessor
		service     *Service
		server      *Server
		auth        BasicAuth
		ghttpServer *ghttp.Server
	)

	setupServer := func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
		server = NewServerWithMux(service, auth, http.NewServeMux())
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	}

	postJSON := func(path string, body any) *http.Response {
		payload, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		resp, err := http.Post(ghttpServer.URL()+path, "application/json", bytes.NewReader(payload))
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	BeforeEach(func() {
		db = newMockDB()
		storage = newMockStorage()
		processor = newMockProcessor()
		auth = BasicAuth{}
		service = NewService(db, processor, storage)
		setupServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	Describe("handleScanReceipt", func() {
		var imageB64 string

		BeforeEach(func() {
			imageB64 = base64.StdEncoding.EncodeToString([]byte("fake image data"))
		})

		When("the request carries a valid image", func() {
			It("should return status OK with a success envelope", func() {
				resp := postJSON("/api/receipts/scan", map[string]string{"image": imageB64})
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var envelope struct {
					Success bool               `json:"success"`
					Data    *extraction.Record `json:"data"`
				}
				Expect(json.NewDecoder(resp.Body).Decode(&envelope)).NotTo(HaveOccurred())
				Expect(envelope.Success).To(BeTrue())
				Expect(envelope.Data).NotTo(BeNil())
				Expect(*envelope.Data.SupplierName).To(Equal("99 Speedmart"))
				Expect(*envelope.Data.TotalAmount).To(Equal(24.90))
			})

			It("should serialize the record with the wire field names", func() {
				resp := postJSON("/api/receipts/scan", map[string]string{"image": imageB64})
				defer resp.Body.Close()
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(body)).To(ContainSubstring(`"total_amount"`))
				Expect(string(body)).To(ContainSubstring(`"supplier_name"`))
				Expect(string(body)).To(ContainSubstring(`"receipt_date"`))
				Expect(string(body)).To(ContainSubstring(`"line_items"`))
				Expect(string(body)).To(ContainSubstring(`"confidence_scores"`))
			})

			It("should not persist anything", func() {
				resp := postJSON("/api/receipts/scan", map[string]string{"image": imageB64})
				resp.Body.Close()
				Expect(db.receipts).To(BeEmpty())
				Expect(storage.files).To(BeEmpty())
			})
		})

		When("the image field is missing", func() {
			It("should return status Bad Request with a failure envelope", func() {
				resp := postJSON("/api/receipts/scan", map[string]string{"mime_type": "image/png"})
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

				var envelope scanResponse
				Expect(json.NewDecoder(resp.Body).Decode(&envelope)).NotTo(HaveOccurred())
				Expect(envelope.Success).To(BeFalse())
				Expect(envelope.Error).NotTo(BeEmpty())
			})
		})

		When("the image payload is not valid base64", func() {
			It("should return status Bad Request", func() {
				resp := postJSON("/api/receipts/scan", map[string]string{"image": "not-base64!!!"})
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})
		})

		When("the recognition service returns no document", func() {
			BeforeEach(func() {
				processor.processErr = scanning.ErrNoDocument
				setupServer()
			})

			It("should return status Internal Server Error with a failure envelope", func() {
				resp := postJSON("/api/receipts/scan", map[string]string{"image": imageB64})
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))

				var envelope scanResponse
				Expect(json.NewDecoder(resp.Body).Decode(&envelope)).NotTo(HaveOccurred())
				Expect(envelope.Success).To(BeFalse())
			})
		})
	})

	Describe("handleUploadReceipt", func() {
		var imageB64 string

		BeforeEach(func() {
			imageB64 = base64.StdEncoding.EncodeToString([]byte("fake image data"))
		})

		When("the upload succeeds", func() {
			It("should return status Created with the stored receipt", func() {
				resp := postJSON("/api/receipts", map[string]string{"image": imageB64, "filename": "lunch.jpg"})
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusCreated))

				var stored Receipt
				Expect(json.NewDecoder(resp.Body).Decode(&stored)).NotTo(HaveOccurred())
				Expect(stored.ID).NotTo(BeEmpty())
				Expect(*stored.Record.TotalAmount).To(Equal(24.90))
			})

			It("should persist the receipt and the image", func() {
				resp := postJSON("/api/receipts", map[string]string{"image": imageB64, "filename": "lunch.jpg"})
				resp.Body.Close()
				Expect(db.receipts).To(HaveLen(1))
				Expect(storage.files).To(HaveLen(1))
			})
		})

		When("the image field is missing", func() {
			It("should return status Bad Request", func() {
				resp := postJSON("/api/receipts", map[string]string{"filename": "lunch.jpg"})
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})
		})
	})

	Describe("handleListReceipts", func() {
		When("receipts exist", func() {
			BeforeEach(func() {
				db.receipts["id1"] = &Receipt{ID: "id1"}
				db.receipts["id2"] = &Receipt{ID: "id2"}
			})

			It("should return all receipts", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/receipts")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var receipts []*Receipt
				Expect(json.NewDecoder(resp.Body).Decode(&receipts)).NotTo(HaveOccurred())
				Expect(receipts).To(HaveLen(2))
			})
		})

		When("no receipts exist", func() {
			It("should return an empty array", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/receipts")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()

				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(body)).To(ContainSubstring("[]"))
			})
		})
	})

	Describe("handleGetReceipt", func() {
		When("the receipt exists", func() {
			BeforeEach(func() {
				db.receipts["id1"] = &Receipt{ID: "id1"}
			})

			It("should return the receipt", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/receipts/id1")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var receipt Receipt
				Expect(json.NewDecoder(resp.Body).Decode(&receipt)).NotTo(HaveOccurred())
				Expect(receipt.ID).To(Equal("id1"))
			})
		})

		When("the receipt does not exist", func() {
			BeforeEach(func() {
				db.getErr = errors.New("receipt not found")
			})

			It("should return status Not Found", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/receipts/missing")
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			})
		})
	})

	Describe("handleDeleteReceipt", func() {
		BeforeEach(func() {
			db.receipts["id1"] = &Receipt{ID: "id1", Filename: "f.jpg"}
			storage.files["f.jpg"] = []byte("data")
		})

		It("should return status No Content", func() {
			req, err := http.NewRequest("DELETE", ghttpServer.URL()+"/api/receipts/id1", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			Expect(db.receipts).NotTo(HaveKey("id1"))
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			auth = BasicAuth{Username: "user", Password: "pass"}
			setupServer()
		})

		When("credentials are missing", func() {
			It("should return status Unauthorized", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/receipts")
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			})
		})

		When("credentials are valid", func() {
			It("should allow the request", func() {
				req, err := http.NewRequest("GET", ghttpServer.URL()+"/api/receipts", nil)
				Expect(err).NotTo(HaveOccurred())
				req.SetBasicAuth("user", "pass")
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
			})
		})
	})
})
